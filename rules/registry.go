package rules

import (
	"fmt"
	"reflect"

	"github.com/structsmith/structsmith/attribute"
	"github.com/structsmith/structsmith/match"
	"github.com/structsmith/structsmith/schema"
)

// Transformer rewrites a field descriptor for a specific target type.
// It is applied only to fields matched by the rule that carries it, and
// only at dispatch time, once the matched field is known.
type Transformer interface {
	Transform(target *schema.Type, f schema.Field) schema.Field
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(target *schema.Type, f schema.Field) schema.Field

// Transform invokes the wrapped function.
func (fn TransformerFunc) Transform(target *schema.Type, f schema.Field) schema.Field {
	return fn(target, f)
}

// Identity leaves fields untouched.
var Identity Transformer = identityTransformer{}

type identityTransformer struct{}

func (identityTransformer) Transform(_ *schema.Type, f schema.Field) schema.Field {
	return f
}

// rule is one uncompiled registry entry. Rules are immutable once
// constructed; the registry never rewrites or reorders existing entries.
type rule struct {
	matcher      match.Latent
	factory      attribute.Factory
	defaultValue any
	transformer  Transformer
}

func (r rule) equal(other rule) bool {
	return valueEqual(r.matcher, other.matcher) &&
		valueEqual(r.factory, other.factory) &&
		valueEqual(r.defaultValue, other.defaultValue) &&
		valueEqual(r.transformer, other.transformer)
}

// Registry is an ordered, immutable sequence of field configuration rules.
// The zero value is the valid empty registry. A Registry value may be
// compiled against any number of targets and extended with Prepend at any
// time; neither operation affects existing values.
type Registry struct {
	rules []rule
}

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return Registry{}
}

// Prepend returns a new registry with the given rule inserted at the
// highest dispatch priority. The receiver is left unchanged. A nil factory
// is treated as attribute.NoOp and a nil transformer as Identity.
func (r Registry) Prepend(matcher match.Latent, factory attribute.Factory, defaultValue any, transformer Transformer) Registry {
	if factory == nil {
		factory = attribute.NoOp
	}
	if transformer == nil {
		transformer = Identity
	}
	entries := make([]rule, 0, len(r.rules)+1)
	entries = append(entries, rule{
		matcher:      matcher,
		factory:      factory,
		defaultValue: defaultValue,
		transformer:  transformer,
	})
	entries = append(entries, r.rules...)
	return Registry{rules: entries}
}

// Len returns the number of rules in the registry.
func (r Registry) Len() int {
	return len(r.rules)
}

// Equal reports whether two registries hold equal rule sequences in the
// same order. Default values compare by nullable value equality. Equality
// serves configuration-level deduplication by callers; dispatch never
// consults it.
func (r Registry) Equal(other Registry) bool {
	if len(r.rules) != len(other.rules) {
		return false
	}
	for i := range r.rules {
		if !r.rules[i].equal(other.rules[i]) {
			return false
		}
	}
	return true
}

// Compile binds the registry to one target type. Every latent matcher is
// resolved against the target and every factory is instantiated, with
// factories deduplicated by value: a factory referenced by several rules is
// invoked exactly once and its appender shared between the compiled rules.
// The dedup cache lives only for the duration of this call; compiling the
// same registry against another target starts from scratch. Rule order, and
// with it dispatch priority, is preserved.
func (r Registry) Compile(target *schema.Type) *Compiled {
	cache := factoryCache{}
	entries := make([]compiledRule, 0, len(r.rules))
	for _, entry := range r.rules {
		entries = append(entries, compiledRule{
			matcher:      entry.matcher.Resolve(target),
			appender:     cache.appender(entry.factory, target),
			defaultValue: entry.defaultValue,
			transformer:  entry.transformer,
		})
	}
	return &Compiled{target: target, entries: entries}
}

// String returns a short human-readable summary.
func (r Registry) String() string {
	return fmt.Sprintf("rules.Registry(%d rules)", len(r.rules))
}

// factoryCache deduplicates appender factories during one Compile call.
// Lookup is a linear scan with value equality so that composite factories
// (which are not comparable with ==) still deduplicate correctly.
type factoryCache struct {
	entries []factoryCacheEntry
}

type factoryCacheEntry struct {
	factory  attribute.Factory
	appender attribute.Appender
}

func (c *factoryCache) appender(factory attribute.Factory, target *schema.Type) attribute.Appender {
	for _, entry := range c.entries {
		if valueEqual(entry.factory, factory) {
			return entry.appender
		}
	}
	appender := factory.Make(target)
	c.entries = append(c.entries, factoryCacheEntry{factory: factory, appender: appender})
	return appender
}

// valueEqual compares two opaque values: identical comparable dynamic types
// compare with ==, everything else falls back to reflect.DeepEqual. A nil
// on either side matches only a nil on the other.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
