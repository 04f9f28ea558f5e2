package descriptor

import (
	"fmt"
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Context owns a set of type and enum descriptors. Registration is explicit
// and mutex-guarded; queries and traversal operate on immutable published
// descriptors and are safe for concurrent use.
type Context struct {
	// Configuration
	namingStrategy NamingStrategy
	tagName        string
	autoIntrospect bool
	cacheSize      int
	onEvict        func(reflect.Type, *TypeMeta)

	// Registered descriptors. Guarded by mu; descriptors themselves are
	// immutable once stored.
	mu    sync.RWMutex
	types map[reflect.Type]*TypeMeta
	enums map[reflect.Type]*EnumMeta

	parser *TagParser

	// autoCache holds bounded, evictable descriptors for unregistered
	// structs seen by Describe when auto-introspection is enabled.
	// Explicit registrations never land here.
	autoCache *lru.Cache[reflect.Type, *TypeMeta]
}

// Option configures a Context.
type Option func(*Context)

// WithNamingStrategy sets the strategy deriving member wire names.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(c *Context) { c.namingStrategy = strategy }
}

// WithTagName sets the struct tag key to read member options from.
func WithTagName(tagName string) Option {
	return func(c *Context) { c.tagName = tagName }
}

// WithAutoIntrospect enables the Describe fallback that builds a bounded,
// cached descriptor for unregistered struct types. Auto-introspected types
// still report IsReflectable as false.
func WithAutoIntrospect(enabled bool) Option {
	return func(c *Context) { c.autoIntrospect = enabled }
}

// WithCacheSize sets the LRU cache size for auto-introspected descriptors.
func WithCacheSize(size int) Option {
	return func(c *Context) { c.cacheSize = size }
}

// WithEvictionCallback sets a callback for auto-introspection cache
// eviction events.
func WithEvictionCallback(onEvict func(reflect.Type, *TypeMeta)) Option {
	return func(c *Context) { c.onEvict = onEvict }
}

// New creates a descriptor context with the given configuration.
func New(options ...Option) *Context {
	c := &Context{
		namingStrategy: DefaultNamingStrategy(),
		tagName:        "enref",
		cacheSize:      256,

		types: make(map[reflect.Type]*TypeMeta, 64),
		enums: make(map[reflect.Type]*EnumMeta, 16),
	}

	for _, opt := range options {
		opt(c)
	}
	if c.cacheSize <= 0 {
		c.cacheSize = 256
	}

	c.parser = NewTagParser(c.namingStrategy, c.tagName)

	if c.onEvict != nil {
		c.autoCache, _ = lru.NewWithEvict[reflect.Type, *TypeMeta](c.cacheSize, c.onEvict)
	} else {
		c.autoCache, _ = lru.New[reflect.Type, *TypeMeta](c.cacheSize)
	}

	return c
}

// normalizeType dereferences pointer types; descriptors are always keyed by
// the bare struct or enum type.
func normalizeType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t, nil
}

// IsReflectable reports whether t was explicitly registered, either as a
// struct or as an enum. Unregistered types simply report false; only
// reflective generic code querying this flag is affected.
func (c *Context) IsReflectable(t reflect.Type) bool {
	t, err := normalizeType(t)
	if err != nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.types[t]; ok {
		return true
	}
	_, ok := c.enums[t]
	return ok
}

// IsEnum reports whether t was registered as an enumeration.
func (c *Context) IsEnum(t reflect.Type) bool {
	t, err := normalizeType(t)
	if err != nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.enums[t]
	return ok
}

// MemberCount returns the total member count of t: its own declared members
// plus, transitively, all base types' members. Querying an unregistered
// type is a contract violation surfaced as ErrNotRegistered.
func (c *Context) MemberCount(t reflect.Type) (int, error) {
	meta, err := c.lookupStruct(t)
	if err != nil {
		return 0, err
	}
	return meta.TotalMemberCount, nil
}

// TypeName returns the declared name used when t was registered, for either
// a struct or an enum descriptor.
func (c *Context) TypeName(t reflect.Type) (string, error) {
	t, err := normalizeType(t)
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if meta, ok := c.types[t]; ok {
		return meta.Name, nil
	}
	if meta, ok := c.enums[t]; ok {
		return meta.Name, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotRegistered, t)
}

// Lookup returns the registered struct descriptor for t, if any.
func (c *Context) Lookup(t reflect.Type) (*TypeMeta, bool) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.types[t]
	return meta, ok
}

// Describe returns the struct descriptor for t. For unregistered struct
// types it falls back to auto-introspection when enabled; otherwise it
// returns ErrNotRegistered. Registered enum types are rejected with
// ErrNotStruct since enums have no member descriptors.
func (c *Context) Describe(t reflect.Type) (*TypeMeta, error) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	meta, ok := c.types[t]
	if !ok {
		_, isEnum := c.enums[t]
		c.mu.RUnlock()
		if isEnum {
			return nil, fmt.Errorf("%w: %s is an enum", ErrNotStruct, t)
		}
		if c.autoIntrospect && t.Kind() == reflect.Struct {
			return c.introspect(t)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}
	c.mu.RUnlock()
	return meta, nil
}

// Visit traverses the members of t with v. See TypeMeta.Visit for the
// ordering contract.
func (c *Context) Visit(t reflect.Type, v MemberVisitor) error {
	meta, err := c.Describe(t)
	if err != nil {
		return err
	}
	return meta.Visit(v)
}

// DescribeEnum returns the enum descriptor for t.
func (c *Context) DescribeEnum(t reflect.Type) (*EnumMeta, error) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.enums[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEnum, t)
	}
	return meta, nil
}

// VisitEnum traverses the enumerators of t with v, in declared order.
func (c *Context) VisitEnum(t reflect.Type, v EnumVisitor) error {
	meta, err := c.DescribeEnum(t)
	if err != nil {
		return err
	}
	return meta.Visit(v)
}

// lookupStruct resolves a registered struct descriptor or classifies the miss.
func (c *Context) lookupStruct(t reflect.Type) (*TypeMeta, error) {
	t, err := normalizeType(t)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if meta, ok := c.types[t]; ok {
		return meta, nil
	}
	if _, ok := c.enums[t]; ok {
		return nil, fmt.Errorf("%w: %s is an enum", ErrNotStruct, t)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
}

// RegisteredCount returns the number of explicitly registered descriptors
// (structs plus enums).
func (c *Context) RegisteredCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types) + len(c.enums)
}

// PurgeAutoCache drops all auto-introspected descriptors. Registered
// descriptors are unaffected.
func (c *Context) PurgeAutoCache() {
	c.autoCache.Purge()
}

// Generic conveniences over a Context.

// IsReflectable reports whether T is registered in c.
func IsReflectable[T any](c *Context) bool {
	return c.IsReflectable(typeOf[T]())
}

// IsEnum reports whether T is registered as an enum in c.
func IsEnum[T any](c *Context) bool {
	return c.IsEnum(typeOf[T]())
}

// MemberCount returns the total member count of T.
func MemberCount[T any](c *Context) (int, error) {
	return c.MemberCount(typeOf[T]())
}

// TypeName returns the declared registration name of T.
func TypeName[T any](c *Context) (string, error) {
	return c.TypeName(typeOf[T]())
}

// Describe returns the struct descriptor of T.
func Describe[T any](c *Context) (*TypeMeta, error) {
	return c.Describe(typeOf[T]())
}

// Visit traverses the members of T with v.
func Visit[T any](c *Context, v MemberVisitor) error {
	return c.Visit(typeOf[T](), v)
}

// typeOf resolves the reflect.Type of T without requiring a value.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
