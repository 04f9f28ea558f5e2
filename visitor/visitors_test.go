package visitor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/enref/descriptor"
)

type Point struct {
	X float64
	Y float64
}

type Point3D struct {
	Point
	Z float64
}

type Session struct {
	ID    uuid.UUID `enref:"generator:uuid"`
	Trace ulid.ULID `enref:"generator:ulid"`
	Token string    `enref:"generator:nanoid"`
	User  string
}

func newTestContext(t *testing.T) *descriptor.Context {
	t.Helper()
	c := descriptor.New()
	_, err := descriptor.Register[Point](c, descriptor.WithMembers("X", "Y"))
	require.NoError(t, err)
	_, err = descriptor.Register[Point3D](c, descriptor.WithBase[Point](), descriptor.WithMembers("Z"))
	require.NoError(t, err)
	_, err = descriptor.Register[Session](c, descriptor.WithMembers("ID", "Trace", "Token", "User"))
	require.NoError(t, err)
	return c
}

func TestNameCollector(t *testing.T) {
	c := newTestContext(t)

	collector := &NameCollector{}
	require.NoError(t, descriptor.Visit[Point3D](c, collector))
	assert.Equal(t, []string{"X", "Y", "Z"}, collector.Names())

	collector.Reset()
	require.NoError(t, descriptor.Visit[Point](c, collector))
	assert.Equal(t, []string{"X", "Y"}, collector.Names())
}

func TestDumper(t *testing.T) {
	c := newTestContext(t)

	p := &Point3D{Point: Point{X: 1, Y: 2}, Z: 3}
	dumper, err := NewDumper(p)
	require.NoError(t, err)
	defer dumper.Release()

	require.NoError(t, descriptor.Visit[Point3D](c, dumper))
	assert.Equal(t, "X=1\nY=2\nZ=3\n", dumper.String())
}

func TestDumperRejectsNonPointer(t *testing.T) {
	_, err := NewDumper(Point{})
	assert.ErrorIs(t, err, descriptor.ErrNilTarget)

	_, err = NewDumper((*Point)(nil))
	assert.ErrorIs(t, err, descriptor.ErrNilTarget)

	s := "not a struct"
	_, err = NewDumper(&s)
	assert.ErrorIs(t, err, descriptor.ErrNilTarget)
}

func TestFiller(t *testing.T) {
	c := newTestContext(t)

	session := &Session{User: "ada"}
	filler, err := NewFiller(session)
	require.NoError(t, err)

	require.NoError(t, descriptor.Visit[Session](c, filler))

	assert.Equal(t, 3, filler.Filled())
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.NotEqual(t, ulid.ULID{}, session.Trace)
	assert.Len(t, session.Token, 21)
	assert.Equal(t, "ada", session.User, "members without a generator stay untouched")
}

func TestFillerDistinctValues(t *testing.T) {
	c := newTestContext(t)

	first := &Session{}
	second := &Session{}

	for _, target := range []*Session{first, second} {
		filler, err := NewFiller(target)
		require.NoError(t, err)
		require.NoError(t, descriptor.Visit[Session](c, filler))
	}

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Trace, second.Trace)
	assert.NotEqual(t, first.Token, second.Token)
}
