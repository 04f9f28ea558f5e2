package descriptor

import (
	"errors"
	"fmt"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("enref(descriptor): nil reflect.Type provided")
	// ErrNotStruct is returned when a struct operation is applied to a
	// non-struct type (including registered enums).
	ErrNotStruct = errors.New("enref(descriptor): type is not a struct")
	// ErrNotEnum is returned when an enum operation is applied to a type
	// that was not registered as an enum.
	ErrNotEnum = errors.New("enref(descriptor): type is not a registered enum")
	// ErrNotNamed is returned when registering an unnamed type.
	ErrNotNamed = errors.New("enref(descriptor): type has no name")
	// ErrNotRegistered is returned by descriptor queries on types that
	// were never registered.
	ErrNotRegistered = errors.New("enref(descriptor): type is not registered")
	// ErrConflictingRegistration indicates an attempt to re-register a
	// type with a different shape. Identical re-registration is idempotent.
	ErrConflictingRegistration = errors.New("enref(descriptor): conflicting type registration")

	// ErrUnknownMember is returned when a declared member name does not
	// exist as a field on the registered type.
	ErrUnknownMember = errors.New("enref(descriptor): unknown member")
	// ErrUnexportedMember is returned when a declared member exists but
	// is not exported.
	ErrUnexportedMember = errors.New("enref(descriptor): member is not exported")
	// ErrDuplicateMember is returned when a member name appears more than
	// once in a registration.
	ErrDuplicateMember = errors.New("enref(descriptor): duplicate member")

	// ErrBaseNotRegistered is returned when a declared base type has no
	// descriptor of its own.
	ErrBaseNotRegistered = errors.New("enref(descriptor): base type is not registered")
	// ErrBaseNotEmbedded is returned when a declared base type is not an
	// embedded field of the registered type.
	ErrBaseNotEmbedded = errors.New("enref(descriptor): base type is not embedded")
	// ErrRepeatedBase is returned when the same base type appears more
	// than once in the transitive base closure of a registration.
	ErrRepeatedBase = errors.New("enref(descriptor): repeated base type")

	// ErrDuplicateEnumerator is returned when an enum registration
	// contains a repeated enumerator name or value.
	ErrDuplicateEnumerator = errors.New("enref(descriptor): duplicate enumerator")
	// ErrEmptyEnumeratorName is returned when an enumerator is registered
	// with an empty name.
	ErrEmptyEnumeratorName = errors.New("enref(descriptor): empty enumerator name")

	// ErrNilVisitor is returned when a nil visitor is passed to a
	// traversal operation.
	ErrNilVisitor = errors.New("enref(descriptor): nil visitor")
	// ErrNilTarget is returned when a nil or non-pointer traversal target
	// is supplied where an instance is required.
	ErrNilTarget = errors.New("enref(descriptor): target must be a non-nil struct pointer")
)

// BadEnumCastError is returned by EnumMeta.ToString and EnumMeta.FromString
// when the input matches no registered enumerator. It carries the offending
// value or name together with the enum's registered type name so callers can
// report the failure precisely.
type BadEnumCastError struct {
	// TypeName is the enum's registered name.
	TypeName string
	// Value is the offending integer value for ToString misses.
	Value int64
	// Name is the offending string for FromString misses.
	Name string

	fromName bool
}

// ByName reports whether the failed conversion was name-to-value
// (FromString) rather than value-to-name (ToString).
func (e *BadEnumCastError) ByName() bool { return e.fromName }

func (e *BadEnumCastError) Error() string {
	if e.fromName {
		return fmt.Sprintf("enref(descriptor): bad enum cast: no enumerator named %q in %s", e.Name, e.TypeName)
	}
	return fmt.Sprintf("enref(descriptor): bad enum cast: no enumerator with value %d in %s", e.Value, e.TypeName)
}
