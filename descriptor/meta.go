package descriptor

import (
	"reflect"
	"unsafe"
)

// TypeMeta is the immutable descriptor of a registered struct type. It holds
// the type's own members in declaration order, its base descriptors in
// declared base order, and a pre-resolved traversal plan covering the full
// member set (bases first, then own members).
//
// A TypeMeta is built once at registration and never mutated afterwards, so
// it is safe to share across goroutines without locking.
type TypeMeta struct {
	Type   reflect.Type
	Name   string // declared name used at registration
	Plural string // plural form of Name, for collection naming

	Bases   []*TypeMeta   // declared base order
	Members []*MemberMeta // own members only, declaration order

	LocalMemberCount int // len(Members)
	TotalMemberCount int // LocalMemberCount + sum of bases' TotalMemberCount

	// AutoIntrospected marks descriptors built by the auto-introspection
	// fallback rather than explicit registration.
	AutoIntrospected bool

	// resolved is the flattened traversal plan: each base's resolved
	// members (offsets shifted into this type's layout) in declared base
	// order, then own members in declaration order.
	resolved  []*MemberMeta
	memberMap map[string]*MemberMeta // member name -> resolved member
}

// MemberMeta describes one member slot of a registered type: its declared
// name, wire name, static type, and accessors bound to the member's offset
// within the enclosing (possibly derived) type.
type MemberMeta struct {
	Name      string
	WireName  string // tag override or naming strategy output
	Type      reflect.Type
	Index     []int // reflect field index chain from the enclosing type
	Offset    uintptr
	Tag       *ParsedTag
	Generator IDGenerator // non-nil when the member declares a value generator

	// DirectSet writes val into this member of the struct at structPtr.
	// It accepts the member's exact type, nil (zero value), or any value
	// convertible to the member type; anything else panics.
	DirectSet func(structPtr unsafe.Pointer, val any)
	// Get reads this member from the struct at structPtr.
	Get func(structPtr unsafe.Pointer) any
}

// MemberVisitor receives one member descriptor per traversal step.
// Returning a non-nil error aborts the traversal and propagates the error.
type MemberVisitor interface {
	VisitMember(m *MemberMeta) error
}

// MemberVisitorFunc adapts a function to the MemberVisitor interface.
type MemberVisitorFunc func(m *MemberMeta) error

func (f MemberVisitorFunc) VisitMember(m *MemberMeta) error { return f(m) }

// EnumVisitor receives one enumerator per traversal step, in declared order.
type EnumVisitor interface {
	VisitEnumerator(name string, value int64) error
}

// EnumVisitorFunc adapts a function to the EnumVisitor interface.
type EnumVisitorFunc func(name string, value int64) error

func (f EnumVisitorFunc) VisitEnumerator(name string, value int64) error { return f(name, value) }

// Visit invokes v once per member of the full traversal plan: base types'
// members first (in declared base order, recursively), then own members in
// declaration order. Exactly TotalMemberCount invocations occur unless the
// visitor returns an error, which aborts the walk.
//
// Visit mutates no registry state; any instance mutation happens only if the
// visitor writes through the accessors it is given.
func (m *TypeMeta) Visit(v MemberVisitor) error {
	if v == nil {
		return ErrNilVisitor
	}
	for _, mm := range m.resolved {
		if err := v.VisitMember(mm); err != nil {
			return err
		}
	}
	return nil
}

// ResolvedMembers returns the flattened traversal plan. The returned slice
// is the descriptor's internal plan; callers must not modify it.
func (m *TypeMeta) ResolvedMembers() []*MemberMeta {
	return m.resolved
}

// Member looks up a member of the full traversal plan by declared name.
func (m *TypeMeta) Member(name string) (*MemberMeta, bool) {
	mm, ok := m.memberMap[name]
	return mm, ok
}
