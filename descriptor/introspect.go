package descriptor

import (
	"fmt"
	"reflect"
)

// introspect builds (or returns the cached) auto-introspected descriptor
// for an unregistered struct type: all exported, non-anonymous fields in
// declaration order, honoring tag skip directives. Auto-introspection never
// composes bases; it is a flat convenience view, not a registration.
func (c *Context) introspect(t reflect.Type) (*TypeMeta, error) {
	if meta, ok := c.autoCache.Get(t); ok {
		return meta, nil
	}

	meta, err := c.buildAutoMeta(t)
	if err != nil {
		return nil, err
	}

	c.autoCache.Add(t, meta)
	return meta, nil
}

func (c *Context) buildAutoMeta(t reflect.Type) (*TypeMeta, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotStruct, t, t.Kind())
	}

	numFields := t.NumField()
	exportedCount := 0
	for i := 0; i < numFields; i++ {
		if t.Field(i).IsExported() && !t.Field(i).Anonymous {
			exportedCount++
		}
	}

	meta := &TypeMeta{
		Type:             t,
		Name:             t.Name(),
		Plural:           pluralize(t.Name()),
		Members:          make([]*MemberMeta, 0, exportedCount),
		AutoIntrospected: true,
		memberMap:        make(map[string]*MemberMeta, exportedCount),
	}

	for i := 0; i < numFields; i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		mm, err := c.buildMember(f)
		if err != nil {
			return nil, err
		}
		if mm.Tag.IsSkipped() {
			continue
		}

		meta.Members = append(meta.Members, mm)
		meta.memberMap[mm.Name] = mm
	}

	meta.LocalMemberCount = len(meta.Members)
	meta.TotalMemberCount = meta.LocalMemberCount
	meta.resolved = meta.Members

	return meta, nil
}
