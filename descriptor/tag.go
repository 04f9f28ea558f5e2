package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ParsedTag holds the parsed member tag configuration. Tags are optional;
// a member without a tag gets its wire name from the naming strategy.
type ParsedTag struct {
	// WireName is the member's name on the wire (explicit or derived).
	WireName string
	// Skip marks the member as excluded from auto-introspection
	// (`enref:"-"`). Explicitly declared members are never skipped:
	// the registration declaration wins over the tag.
	Skip bool
	// Generator names the value generator for this member (uuid, ulid,
	// snowflake, nanoid).
	Generator string
}

// IsSkipped returns true if this member is excluded from auto-introspection.
func (tag *ParsedTag) IsSkipped() bool { return tag.Skip }

// GetGenerator returns the configured value generator instance, or nil when
// no generator is configured or the name is unknown.
func (tag *ParsedTag) GetGenerator() IDGenerator {
	if tag.Generator == "" {
		return nil
	}
	if generator, exists := defaultGenerators.Get(tag.Generator); exists {
		return generator
	}
	return nil
}

// TagParser parses and caches member tags. Parsing results are cached per
// (field, tag value) pair since struct tags never change at runtime.
type TagParser struct {
	namingStrategy NamingStrategy
	tagName        string
	cache          map[string]*ParsedTag
	cacheMu        sync.RWMutex
}

// NewTagParser creates a parser reading the given tag key and deriving
// default wire names via namingStrategy.
func NewTagParser(namingStrategy NamingStrategy, tagName string) *TagParser {
	return &TagParser{
		namingStrategy: namingStrategy,
		tagName:        tagName,
		cache:          make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses the member tag of fieldName from tag.
//
// Supported syntax:
//
//	`enref:"wire_name"`          // explicit wire name
//	`enref:"name:wire_name"`     // explicit wire name, key form
//	`enref:"generator:uuid"`     // value generator
//	`enref:"-"`                  // exclude from auto-introspection
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	tagValue := tag.Get(p.tagName)

	if tagValue == "" {
		return &ParsedTag{WireName: p.namingStrategy.MemberName(fieldName)}, nil
	}

	cacheKey := fieldName + ":" + tagValue
	p.cacheMu.RLock()
	if cached, exists := p.cache[cacheKey]; exists {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed, err := p.parseTagValue(fieldName, tagValue)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldName, err)
	}

	p.cacheMu.Lock()
	p.cache[cacheKey] = parsed
	p.cacheMu.Unlock()

	return parsed, nil
}

func (p *TagParser) parseTagValue(fieldName, tagValue string) (*ParsedTag, error) {
	if tagValue == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{
		WireName: p.namingStrategy.MemberName(fieldName),
	}

	// Simple wire name, the common case.
	if !strings.ContainsAny(tagValue, ";:") {
		parsed.WireName = tagValue
		return parsed, nil
	}

	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		key, value := option, ""
		if colonIdx := strings.IndexByte(option, ':'); colonIdx != -1 {
			key = strings.TrimSpace(option[:colonIdx])
			value = strings.TrimSpace(option[colonIdx+1:])
		}

		switch key {
		case "name":
			if value == "" {
				return nil, fmt.Errorf("empty wire name")
			}
			parsed.WireName = value
		case "generator", "gen":
			parsed.Generator = value
		default:
			// Ignore unknown options for forward compatibility.
		}
	}

	return parsed, nil
}

// ClearCache removes all cached parsed tags.
func (p *TagParser) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}
