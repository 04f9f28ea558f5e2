// Package enref provides registration-driven reflection descriptors: for
// each registered type it records the ordered member list (name, type,
// accessor) or enumerator list (name, value) that generic code — codecs,
// RPC marshalling, diagnostics — can traverse through a visitor without
// hand-written per-type logic.
//
// Descriptors are built once at registration, validated against the real Go
// type, and immutable afterwards. Traversal visits base types' members
// before the type's own, each in declaration order, so the visit sequence
// is stable enough to define wire layout for codecs built on top.
//
// This package is a thin facade over a default descriptor.Context; use the
// descriptor package directly when isolated registries are needed.
package enref

import (
	"github.com/Konsultn-Engineering/enref/descriptor"
)

// Re-exported descriptor types, so common use never needs a second import.
type (
	TypeMeta       = descriptor.TypeMeta
	MemberMeta     = descriptor.MemberMeta
	EnumMeta       = descriptor.EnumMeta
	Enumerator     = descriptor.Enumerator
	MemberVisitor  = descriptor.MemberVisitor
	EnumVisitor    = descriptor.EnumVisitor
	RegisterOption = descriptor.RegisterOption
)

// MemberVisitorFunc and EnumVisitorFunc adapt plain functions to the
// visitor interfaces.
type (
	MemberVisitorFunc = descriptor.MemberVisitorFunc
	EnumVisitorFunc   = descriptor.EnumVisitorFunc
)

var defaultContext = descriptor.New()

// Context returns the process-wide default descriptor context backing the
// package-level API.
func Context() *descriptor.Context {
	return defaultContext
}

// Register registers the struct type T with the declared base and member
// lists. See descriptor.RegisterType for the validation rules.
//
//	enref.Register[Point](enref.WithMembers("X", "Y"))
//	enref.Register[Point3D](enref.WithBase[Point](), enref.WithMembers("Z"))
func Register[T any](opts ...RegisterOption) (*TypeMeta, error) {
	return descriptor.Register[T](defaultContext, opts...)
}

// WithBase declares B as the next base type of a registration.
func WithBase[B any]() RegisterOption {
	return descriptor.WithBase[B]()
}

// WithMembers declares a registration's own members, in declaration order.
func WithMembers(names ...string) RegisterOption {
	return descriptor.WithMembers(names...)
}

// WithName overrides the declared name recorded for the type.
func WithName(name string) RegisterOption {
	return descriptor.WithName(name)
}

// RegisterEnum registers the enum type E with its ordered enumerator list.
//
//	enref.RegisterEnum[Color](
//	    enref.V("Red", Red),
//	    enref.V("Green", Green),
//	    enref.V("Blue", Blue),
//	)
func RegisterEnum[E descriptor.Integer](values ...descriptor.EnumValue[E]) (*EnumMeta, error) {
	return descriptor.RegisterEnum[E](defaultContext, values...)
}

// V builds one enumerator (name, value) pair for RegisterEnum.
func V[E descriptor.Integer](name string, value E) descriptor.EnumValue[E] {
	return descriptor.V(name, value)
}

// IsReflectable reports whether T was explicitly registered.
func IsReflectable[T any]() bool {
	return descriptor.IsReflectable[T](defaultContext)
}

// IsEnum reports whether T was registered as an enumeration.
func IsEnum[T any]() bool {
	return descriptor.IsEnum[T](defaultContext)
}

// MemberCount returns T's total member count, including all base members.
func MemberCount[T any]() (int, error) {
	return descriptor.MemberCount[T](defaultContext)
}

// TypeName returns the declared name T was registered under.
func TypeName[T any]() (string, error) {
	return descriptor.TypeName[T](defaultContext)
}

// Describe returns T's struct descriptor.
func Describe[T any]() (*TypeMeta, error) {
	return descriptor.Describe[T](defaultContext)
}

// Visit traverses T's members with v: base members first, in declared base
// order, then own members, in declaration order.
func Visit[T any](v MemberVisitor) error {
	return descriptor.Visit[T](defaultContext, v)
}

// DescribeEnum returns E's enum descriptor.
func DescribeEnum[E descriptor.Integer]() (*EnumMeta, error) {
	return descriptor.DescribeEnum[E](defaultContext)
}

// VisitEnum traverses E's enumerators with v, in declared order.
func VisitEnum[E descriptor.Integer](v EnumVisitor) error {
	return descriptor.VisitEnum[E](defaultContext, v)
}

// EnumToString converts v to its declared enumerator name. A value matching
// no enumerator yields a *descriptor.BadEnumCastError.
func EnumToString[E descriptor.Integer](v E) (string, error) {
	return descriptor.EnumToString(defaultContext, v)
}

// EnumFromString converts a declared enumerator name back to a value of E.
// A name matching no enumerator yields a *descriptor.BadEnumCastError.
func EnumFromString[E descriptor.Integer](name string) (E, error) {
	return descriptor.EnumFromString[E](defaultContext, name)
}
