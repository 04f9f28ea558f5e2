package descriptor

import (
	"fmt"
	"reflect"
	"slices"
)

// registration is the declarative input to RegisterType: the declared name,
// the ordered base-type list, and the ordered own-member-name list.
// Everything else (member types, offsets, accessors, counts, traversal
// composition) is derived from the Go type itself.
type registration struct {
	name    string
	bases   []reflect.Type
	members []string
}

// RegisterOption configures a struct registration.
type RegisterOption func(*registration)

// WithBase declares B as the next base type of the registration. Bases are
// visited in the order they are declared, before the type's own members.
// B must itself be registered and must be an embedded field of the
// registered type.
func WithBase[B any]() RegisterOption {
	return WithBaseType(typeOf[B]())
}

// WithBaseType is the non-generic form of WithBase.
func WithBaseType(t reflect.Type) RegisterOption {
	return func(r *registration) { r.bases = append(r.bases, t) }
}

// WithMembers declares the type's own members, in declaration order.
// Member types are never restated; they are read from the Go type.
func WithMembers(names ...string) RegisterOption {
	return func(r *registration) { r.members = append(r.members, names...) }
}

// WithName overrides the declared name recorded for the type. Defaults to
// the Go type name.
func WithName(name string) RegisterOption {
	return func(r *registration) { r.name = name }
}

// Register registers T in c with the given declaration. It is the generic
// convenience form of Context.RegisterType.
func Register[T any](c *Context, opts ...RegisterOption) (*TypeMeta, error) {
	return c.RegisterType(typeOf[T](), opts...)
}

// RegisterType registers t with the declared base and member lists and
// publishes its immutable descriptor. Registration validates the
// declaration against the real type: unknown or unexported members,
// unregistered or non-embedded bases, and repeated bases anywhere in the
// transitive base closure are all rejected. Re-registering the identical
// declaration is idempotent; any other re-registration is a conflict.
func (c *Context) RegisterType(t reflect.Type, opts ...RegisterOption) (*TypeMeta, error) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, err
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotStruct, t, t.Kind())
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotNamed, t)
	}

	reg := &registration{name: t.Name()}
	for _, opt := range opts {
		opt(reg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.types[t]; ok {
		if sameRegistration(old, reg) {
			return old, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrConflictingRegistration, t)
	}
	if _, ok := c.enums[t]; ok {
		return nil, fmt.Errorf("%w: %s already registered as enum", ErrConflictingRegistration, t)
	}

	meta, err := c.buildTypeMeta(t, reg)
	if err != nil {
		return nil, err
	}

	c.types[t] = meta
	return meta, nil
}

// sameRegistration reports whether reg describes the exact shape old was
// built from: same declared name, same base list, same member list.
func sameRegistration(old *TypeMeta, reg *registration) bool {
	if old.Name != reg.name {
		return false
	}
	if len(old.Bases) != len(reg.bases) || len(old.Members) != len(reg.members) {
		return false
	}
	for i, b := range old.Bases {
		if b.Type != reg.bases[i] {
			return false
		}
	}
	for i, m := range old.Members {
		if m.Name != reg.members[i] {
			return false
		}
	}
	return true
}

// buildTypeMeta derives the full descriptor for t from its declaration.
// Caller holds c.mu.
func (c *Context) buildTypeMeta(t reflect.Type, reg *registration) (*TypeMeta, error) {
	meta := &TypeMeta{
		Type:   t,
		Name:   reg.name,
		Plural: pluralize(reg.name),
	}

	// Compose bases first, in declared order. Each base contributes its own
	// resolved traversal plan with offsets shifted to this type's layout.
	seenBases := make(map[reflect.Type]bool, len(reg.bases))
	for _, bt := range reg.bases {
		baseMeta, ok := c.types[bt]
		if !ok {
			return nil, fmt.Errorf("%w: base %s of %s", ErrBaseNotRegistered, bt, t)
		}

		baseField, ok := embeddedField(t, bt)
		if !ok {
			return nil, fmt.Errorf("%w: %s does not embed %s", ErrBaseNotEmbedded, t, bt)
		}

		if err := collectBaseClosure(baseMeta, seenBases); err != nil {
			return nil, fmt.Errorf("%w in registration of %s", err, t)
		}

		meta.Bases = append(meta.Bases, baseMeta)
		for _, mm := range baseMeta.resolved {
			meta.resolved = append(meta.resolved, shiftMember(mm, baseField))
		}
	}

	// Own members, in declaration order.
	seen := make(map[string]bool, len(reg.members))
	for _, name := range reg.members {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateMember, t, name)
		}
		seen[name] = true

		field, ok := ownField(t, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, t, name)
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnexportedMember, t, name)
		}

		mm, err := c.buildMember(field)
		if err != nil {
			return nil, err
		}
		meta.Members = append(meta.Members, mm)
		meta.resolved = append(meta.resolved, mm)
	}

	meta.LocalMemberCount = len(meta.Members)
	meta.TotalMemberCount = meta.LocalMemberCount
	for _, b := range meta.Bases {
		meta.TotalMemberCount += b.TotalMemberCount
	}

	meta.memberMap = make(map[string]*MemberMeta, len(meta.resolved))
	for _, mm := range meta.resolved {
		meta.memberMap[mm.Name] = mm
	}

	return meta, nil
}

// buildMember derives a member descriptor from a struct field: parsed tag,
// wire name, offset-bound accessors, optional value generator.
func (c *Context) buildMember(f reflect.StructField) (*MemberMeta, error) {
	parsedTag, err := c.parser.ParseTag(f.Name, f.Tag)
	if err != nil {
		return nil, fmt.Errorf("error parsing tag for member %s: %w", f.Name, err)
	}

	wireName := parsedTag.WireName
	if wireName == "" {
		wireName = c.namingStrategy.MemberName(f.Name)
	}

	return &MemberMeta{
		Name:      f.Name,
		WireName:  wireName,
		Type:      f.Type,
		Index:     slices.Clone(f.Index),
		Offset:    f.Offset,
		Tag:       parsedTag,
		Generator: parsedTag.GetGenerator(),
		DirectSet: newDirectSetter(f.Type, f.Offset),
		Get:       newGetter(f.Type, f.Offset),
	}, nil
}

// shiftMember rebinds a base member descriptor into the layout of the
// embedding type: the accessors move by the embedded field's offset, the
// index chain gains the embedded field's position.
func shiftMember(mm *MemberMeta, baseField reflect.StructField) *MemberMeta {
	offset := baseField.Offset + mm.Offset

	shifted := *mm
	shifted.Offset = offset
	shifted.Index = append(slices.Clone(baseField.Index), mm.Index...)
	shifted.DirectSet = newDirectSetter(mm.Type, offset)
	shifted.Get = newGetter(mm.Type, offset)
	return &shifted
}

// embeddedField finds the anonymous field of t with exactly type base.
func embeddedField(t reflect.Type, base reflect.Type) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == base {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// ownField finds the non-anonymous field of t declared directly on t.
// reflect's FieldByName is avoided since it descends into embedded types.
func ownField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous && f.Name == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// collectBaseClosure records meta and its transitive bases into seen,
// failing when any type repeats. Repeated (diamond) bases would make a
// member visitable twice, so they are rejected at registration time.
func collectBaseClosure(meta *TypeMeta, seen map[reflect.Type]bool) error {
	if seen[meta.Type] {
		return fmt.Errorf("%w: %s", ErrRepeatedBase, meta.Type)
	}
	seen[meta.Type] = true
	for _, b := range meta.Bases {
		if err := collectBaseClosure(b, seen); err != nil {
			return err
		}
	}
	return nil
}
