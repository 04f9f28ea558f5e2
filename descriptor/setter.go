package descriptor

import (
	"fmt"
	"reflect"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// setterCreators maps a member type to a factory producing offset-bound
// direct setters for that exact type. Typed setters skip reflection on the
// hot path; types without a registered creator fall back to reflect.
var setterCreators = sync.Map{} // map[reflect.Type]func(uintptr) func(unsafe.Pointer, any)

func registerSetterCreator[T any]() {
	var zero T
	zeroType := reflect.TypeOf(zero)

	setterCreators.Store(zeroType, func(offset uintptr) func(unsafe.Pointer, any) {
		return func(structPtr unsafe.Pointer, value any) {
			fieldPtr := (*T)(unsafe.Add(structPtr, offset))

			if value == nil {
				*fieldPtr = zero
				return
			}
			if typed, ok := value.(T); ok {
				*fieldPtr = typed
				return
			}
			assignReflect(zeroType, unsafe.Pointer(fieldPtr), value)
		}
	})
}

func init() {
	registerSetterCreator[int]()
	registerSetterCreator[int32]()
	registerSetterCreator[int64]()
	registerSetterCreator[uint64]()
	registerSetterCreator[string]()
	registerSetterCreator[*string]()
	registerSetterCreator[bool]()
	registerSetterCreator[float64]()
	registerSetterCreator[time.Time]()
	registerSetterCreator[[]byte]()
	registerSetterCreator[uuid.UUID]()
	registerSetterCreator[ulid.ULID]()
}

// assignReflect is the slow-path assignment used when the incoming value is
// not exactly the member type. It unwraps one level of pointer and converts
// when the types allow it.
func assignReflect(fieldType reflect.Type, fieldPtr unsafe.Pointer, value any) {
	target := reflect.NewAt(fieldType, fieldPtr).Elem()

	if value == nil {
		target.SetZero()
		return
	}

	val := reflect.ValueOf(value)
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		val = val.Elem()
	}
	if val.Type() == fieldType {
		target.Set(val)
		return
	}
	if val.Type().ConvertibleTo(fieldType) {
		target.Set(val.Convert(fieldType))
		return
	}

	panic(fmt.Sprintf("enref(descriptor): cannot assign %T to member of type %s", value, fieldType))
}

// newDirectSetter builds a setter writing the member of fieldType located at
// offset within the enclosing struct.
func newDirectSetter(fieldType reflect.Type, offset uintptr) func(unsafe.Pointer, any) {
	if creator, ok := setterCreators.Load(fieldType); ok {
		return creator.(func(uintptr) func(unsafe.Pointer, any))(offset)
	}

	return func(structPtr unsafe.Pointer, value any) {
		assignReflect(fieldType, unsafe.Add(structPtr, offset), value)
	}
}

// newGetter builds a reader for the member of fieldType located at offset
// within the enclosing struct.
func newGetter(fieldType reflect.Type, offset uintptr) func(unsafe.Pointer) any {
	return func(structPtr unsafe.Pointer) any {
		return reflect.NewAt(fieldType, unsafe.Add(structPtr, offset)).Elem().Interface()
	}
}
