package descriptor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Priority uint8

const (
	Low    Priority = 10
	Medium Priority = 20
	High   Priority = 30
)

func registerColor(t *testing.T, c *Context) *EnumMeta {
	t.Helper()
	meta, err := RegisterEnum[Color](c,
		V("Red", Red),
		V("Green", Green),
		V("Blue", Blue),
	)
	require.NoError(t, err)
	return meta
}

func TestRegisterEnum(t *testing.T) {
	c := New()
	meta := registerColor(t, c)

	assert.Equal(t, "Color", meta.Name)
	assert.Equal(t, 3, meta.Len())
	assert.Equal(t, []Enumerator{
		{Name: "Red", Value: 0},
		{Name: "Green", Value: 1},
		{Name: "Blue", Value: 2},
	}, meta.Enumerators)

	assert.True(t, IsReflectable[Color](c))
	assert.True(t, IsEnum[Color](c))

	name, err := TypeName[Color](c)
	require.NoError(t, err)
	assert.Equal(t, "Color", name)
}

func TestEnumRoundTrip(t *testing.T) {
	c := New()
	meta := registerColor(t, c)

	for _, e := range meta.Enumerators {
		name, err := meta.ToString(e.Value)
		require.NoError(t, err)
		assert.Equal(t, e.Name, name)

		value, err := meta.FromString(e.Name)
		require.NoError(t, err)
		assert.Equal(t, e.Value, value)
	}
}

func TestEnumConversionScenario(t *testing.T) {
	c := New()
	registerColor(t, c)

	name, err := EnumToString(c, Green)
	require.NoError(t, err)
	assert.Equal(t, "Green", name)

	value, err := EnumFromString[Color](c, "Blue")
	require.NoError(t, err)
	assert.Equal(t, Blue, value)
}

func TestEnumBadValueCast(t *testing.T) {
	c := New()
	meta := registerColor(t, c)

	_, err := meta.ToString(5)
	require.Error(t, err)

	var cast *BadEnumCastError
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, int64(5), cast.Value)
	assert.Equal(t, "Color", cast.TypeName)
	assert.False(t, cast.ByName())
	assert.Contains(t, cast.Error(), "5")
	assert.Contains(t, cast.Error(), "Color")
}

func TestEnumBadNameCast(t *testing.T) {
	c := New()
	registerColor(t, c)

	_, err := EnumFromString[Color](c, "Purple")
	require.Error(t, err)

	var cast *BadEnumCastError
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, "Purple", cast.Name)
	assert.Equal(t, "Color", cast.TypeName)
	assert.True(t, cast.ByName())
	assert.Contains(t, cast.Error(), "Purple")
	assert.Contains(t, cast.Error(), "Color")

	// Matching is case-sensitive.
	_, err = EnumFromString[Color](c, "red")
	assert.ErrorAs(t, err, &cast)
}

func TestEnumVisitOrder(t *testing.T) {
	c := New()
	_, err := RegisterEnum[Priority](c,
		V("Low", Low),
		V("Medium", Medium),
		V("High", High),
	)
	require.NoError(t, err)

	var names []string
	var values []int64
	err = VisitEnum[Priority](c, EnumVisitorFunc(func(name string, value int64) error {
		names = append(names, name)
		values = append(values, value)
		return nil
	}))
	require.NoError(t, err)

	// Declared order, values taken from the constants themselves.
	assert.Equal(t, []string{"Low", "Medium", "High"}, names)
	assert.Equal(t, []int64{10, 20, 30}, values)
}

func TestEnumVisitStopsOnError(t *testing.T) {
	c := New()
	registerColor(t, c)

	sentinel := errors.New("stop")
	visits := 0
	err := VisitEnum[Color](c, EnumVisitorFunc(func(name string, value int64) error {
		visits++
		return sentinel
	}))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, visits)
}

func TestRegisterEnumValidation(t *testing.T) {
	t.Run("DuplicateName", func(t *testing.T) {
		c := New()
		_, err := RegisterEnum[Color](c, V("Red", Red), V("Red", Green))
		assert.ErrorIs(t, err, ErrDuplicateEnumerator)
	})

	t.Run("DuplicateValue", func(t *testing.T) {
		c := New()
		_, err := RegisterEnum[Color](c, V("Red", Red), V("Crimson", Red))
		assert.ErrorIs(t, err, ErrDuplicateEnumerator)
	})

	t.Run("EmptyName", func(t *testing.T) {
		c := New()
		_, err := RegisterEnum[Color](c, V("", Red))
		assert.ErrorIs(t, err, ErrEmptyEnumeratorName)
	})

	t.Run("NonIntegerKind", func(t *testing.T) {
		c := New()
		_, err := c.RegisterEnumType(reflect.TypeOf("s"), nil)
		assert.ErrorIs(t, err, ErrNotEnum)
	})

	t.Run("IdempotentAndConflicting", func(t *testing.T) {
		c := New()
		meta1 := registerColor(t, c)
		meta2 := registerColor(t, c)
		assert.Same(t, meta1, meta2)

		_, err := RegisterEnum[Color](c, V("Red", Red))
		assert.ErrorIs(t, err, ErrConflictingRegistration)
	})

	t.Run("StructEnumClash", func(t *testing.T) {
		c := New()
		registerColor(t, c)
		_, err := c.RegisterType(reflect.TypeOf(Color(0)))
		assert.ErrorIs(t, err, ErrNotStruct)

		_, err = Register[Point](c, WithMembers("X", "Y"))
		require.NoError(t, err)
		_, err = c.RegisterEnumType(reflect.TypeOf(Point{}), nil)
		assert.ErrorIs(t, err, ErrNotEnum)
	})
}

func TestDescribeEnumErrors(t *testing.T) {
	c := New()
	registerColor(t, c)

	// Member queries on an enum are struct-contract violations.
	_, err := c.MemberCount(reflect.TypeOf(Color(0)))
	assert.ErrorIs(t, err, ErrNotStruct)

	_, err = c.Describe(reflect.TypeOf(Color(0)))
	assert.ErrorIs(t, err, ErrNotStruct)

	// Enum queries on a non-enum miss with ErrNotEnum.
	_, err = c.DescribeEnum(reflect.TypeOf(Point{}))
	assert.ErrorIs(t, err, ErrNotEnum)

	_, err = EnumToString(c, Priority(1))
	assert.ErrorIs(t, err, ErrNotEnum)
}
