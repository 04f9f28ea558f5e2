// Package visitor provides stock implementations of the descriptor
// traversal contracts: collecting member names, dumping instance state, and
// filling generator-backed members.
package visitor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unsafe"

	"github.com/Konsultn-Engineering/enref/descriptor"
)

// instancePtr validates target as a non-nil struct pointer and returns its
// base address for accessor use.
func instancePtr(target any) (unsafe.Pointer, error) {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil, fmt.Errorf("%w, got %T", descriptor.ErrNilTarget, target)
	}
	if val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got pointer to %s", descriptor.ErrNilTarget, val.Elem().Kind())
	}
	return unsafe.Pointer(val.Pointer()), nil
}

// NameCollector records member names in traversal order.
type NameCollector struct {
	names []string
}

func (c *NameCollector) VisitMember(m *descriptor.MemberMeta) error {
	c.names = append(c.names, m.Name)
	return nil
}

// Names returns the collected names in visit order.
func (c *NameCollector) Names() []string { return c.names }

// Reset clears collected names, keeping capacity.
func (c *NameCollector) Reset() { c.names = c.names[:0] }

var dumperPool = sync.Pool{
	New: func() any {
		return &Dumper{}
	},
}

// Dumper renders a registered instance's members as "name=value" lines in
// traversal order, reading each member through its accessor. Instances are
// pooled; call Release when done.
type Dumper struct {
	sb  strings.Builder
	ptr unsafe.Pointer
}

// NewDumper returns a pooled Dumper bound to target, which must be a
// non-nil struct pointer.
func NewDumper(target any) (*Dumper, error) {
	ptr, err := instancePtr(target)
	if err != nil {
		return nil, err
	}

	d := dumperPool.Get().(*Dumper)
	d.sb.Reset()
	d.ptr = ptr
	return d, nil
}

func (d *Dumper) VisitMember(m *descriptor.MemberMeta) error {
	d.sb.WriteString(m.Name)
	d.sb.WriteByte('=')
	fmt.Fprintf(&d.sb, "%v", m.Get(d.ptr))
	d.sb.WriteByte('\n')
	return nil
}

// String returns the rendered dump.
func (d *Dumper) String() string { return d.sb.String() }

// Release returns the Dumper to the pool. The Dumper must not be used
// afterwards.
func (d *Dumper) Release() {
	d.ptr = nil
	d.sb.Reset()
	dumperPool.Put(d)
}

// Filler writes generated values into members whose descriptor carries a
// value generator, through the member's direct setter. Members without a
// generator are left untouched.
type Filler struct {
	ptr    unsafe.Pointer
	filled int
}

// NewFiller returns a Filler bound to target, which must be a non-nil
// struct pointer.
func NewFiller(target any) (*Filler, error) {
	ptr, err := instancePtr(target)
	if err != nil {
		return nil, err
	}
	return &Filler{ptr: ptr}, nil
}

func (f *Filler) VisitMember(m *descriptor.MemberMeta) error {
	if m.Generator == nil {
		return nil
	}

	value, err := m.Generator.Generate()
	if err != nil {
		return fmt.Errorf("generating member %s: %w", m.Name, err)
	}

	m.DirectSet(f.ptr, value)
	f.filled++
	return nil
}

// Filled returns the number of members written so far.
func (f *Filler) Filled() int { return f.filled }
