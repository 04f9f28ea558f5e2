package descriptor

import (
	"fmt"
	"reflect"
)

// Integer constrains enum registration to integer-kinded types, matching
// the underlying-value model of the descriptor core.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EnumValue pairs an enumerator's declared name with its own defined value.
// Values are never renumbered by the registry.
type EnumValue[E Integer] struct {
	Name  string
	Value E
}

// V builds an EnumValue. Registration reads as:
//
//	descriptor.RegisterEnum[Color](ctx,
//	    descriptor.V("Red", Red),
//	    descriptor.V("Green", Green),
//	    descriptor.V("Blue", Blue),
//	)
func V[E Integer](name string, value E) EnumValue[E] {
	return EnumValue[E]{Name: name, Value: value}
}

// Enumerator is the stored (name, underlying value) pair of one enumerator.
type Enumerator struct {
	Name  string
	Value int64
}

// EnumMeta is the immutable descriptor of a registered enumeration: the
// ordered enumerator list plus the two derived lookup tables. Like TypeMeta
// it is built once at registration and safe for concurrent use.
type EnumMeta struct {
	Type reflect.Type
	Name string // declared name used at registration

	Enumerators []Enumerator // declared order

	byName  map[string]int64
	byValue map[int64]string
}

// RegisterEnum registers E in c with its ordered enumerator list.
func RegisterEnum[E Integer](c *Context, values ...EnumValue[E]) (*EnumMeta, error) {
	enums := make([]Enumerator, len(values))
	for i, v := range values {
		enums[i] = Enumerator{Name: v.Name, Value: int64(v.Value)}
	}
	return c.RegisterEnumType(typeOf[E](), enums)
}

// RegisterEnumType is the non-generic registration form. Duplicate
// enumerator names or values within one registration are rejected rather
// than silently resolved. Identical re-registration is idempotent.
func (c *Context) RegisterEnumType(t reflect.Type, enums []Enumerator) (*EnumMeta, error) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, err
	}
	if !isIntegerKind(t.Kind()) {
		return nil, fmt.Errorf("%w: %s has kind %s, want an integer kind", ErrNotEnum, t, t.Kind())
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotNamed, t)
	}

	meta := &EnumMeta{
		Type:        t,
		Name:        t.Name(),
		Enumerators: enums,
		byName:      make(map[string]int64, len(enums)),
		byValue:     make(map[int64]string, len(enums)),
	}

	for _, e := range enums {
		if e.Name == "" {
			return nil, fmt.Errorf("%w in %s", ErrEmptyEnumeratorName, t)
		}
		if _, dup := meta.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: name %q in %s", ErrDuplicateEnumerator, e.Name, t)
		}
		if _, dup := meta.byValue[e.Value]; dup {
			return nil, fmt.Errorf("%w: value %d in %s", ErrDuplicateEnumerator, e.Value, t)
		}
		meta.byName[e.Name] = e.Value
		meta.byValue[e.Value] = e.Name
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.enums[t]; ok {
		if sameEnumerators(old.Enumerators, enums) {
			return old, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrConflictingRegistration, t)
	}
	if _, ok := c.types[t]; ok {
		return nil, fmt.Errorf("%w: %s already registered as struct", ErrConflictingRegistration, t)
	}

	c.enums[t] = meta
	return meta, nil
}

func sameEnumerators(a, b []Enumerator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Visit invokes v once per enumerator, in declared order. The first visitor
// error aborts the walk.
func (m *EnumMeta) Visit(v EnumVisitor) error {
	if v == nil {
		return ErrNilVisitor
	}
	for _, e := range m.Enumerators {
		if err := v.VisitEnumerator(e.Name, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered enumerators.
func (m *EnumMeta) Len() int { return len(m.Enumerators) }

// ToString maps an underlying value to its declared enumerator name.
// A miss returns a *BadEnumCastError carrying the value and the enum's
// registered type name.
func (m *EnumMeta) ToString(value int64) (string, error) {
	if name, ok := m.byValue[value]; ok {
		return name, nil
	}
	return "", &BadEnumCastError{TypeName: m.Name, Value: value}
}

// FromString maps a declared enumerator name (case-sensitive exact match)
// to its underlying value. A miss returns a *BadEnumCastError carrying the
// name and the enum's registered type name.
func (m *EnumMeta) FromString(name string) (int64, error) {
	if value, ok := m.byName[name]; ok {
		return value, nil
	}
	return 0, &BadEnumCastError{TypeName: m.Name, Name: name, fromName: true}
}

// EnumToString converts v to its declared enumerator name.
func EnumToString[E Integer](c *Context, v E) (string, error) {
	meta, err := c.DescribeEnum(typeOf[E]())
	if err != nil {
		return "", err
	}
	return meta.ToString(int64(v))
}

// EnumFromString converts a declared enumerator name back to a value of E.
func EnumFromString[E Integer](c *Context, name string) (E, error) {
	var zero E
	meta, err := c.DescribeEnum(typeOf[E]())
	if err != nil {
		return zero, err
	}
	value, err := meta.FromString(name)
	if err != nil {
		return zero, err
	}
	return E(value), nil
}

// VisitEnum traverses the enumerators of E with v.
func VisitEnum[E Integer](c *Context, v EnumVisitor) error {
	return c.VisitEnum(typeOf[E](), v)
}

// DescribeEnum returns the enum descriptor of E.
func DescribeEnum[E Integer](c *Context) (*EnumMeta, error) {
	return c.DescribeEnum(typeOf[E]())
}
