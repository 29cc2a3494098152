// Package match provides field predicates and the latent matchers that
// produce them. A Matcher is a concrete predicate over a schema.Field;
// a Latent is a matcher that is not yet bound to a target type and must
// be resolved against one before it can be evaluated.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/structsmith/structsmith/schema"
)

// Matcher is a concrete predicate over a field descriptor.
// Implementations must be deterministic and free of side effects.
type Matcher interface {
	Matches(f schema.Field) bool
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(f schema.Field) bool

// Matches invokes the wrapped function.
func (fn MatcherFunc) Matches(f schema.Field) bool {
	return fn(f)
}

// Any matches every field.
var Any Matcher = anyMatcher{}

// None matches no field.
var None Matcher = noneMatcher{}

type anyMatcher struct{}

func (anyMatcher) Matches(schema.Field) bool { return true }

type noneMatcher struct{}

func (noneMatcher) Matches(schema.Field) bool { return false }

// Named matches fields with exactly the given name.
func Named(name string) Matcher {
	return namedMatcher{name: name}
}

type namedMatcher struct {
	name string
}

func (m namedMatcher) Matches(f schema.Field) bool {
	return f.Name == m.name
}

// NamePrefix matches fields whose name starts with the given prefix.
func NamePrefix(prefix string) Matcher {
	return namePrefixMatcher{prefix: prefix}
}

type namePrefixMatcher struct {
	prefix string
}

func (m namePrefixMatcher) Matches(f schema.Field) bool {
	return strings.HasPrefix(f.Name, m.prefix)
}

// NameSuffix matches fields whose name ends with the given suffix.
func NameSuffix(suffix string) Matcher {
	return nameSuffixMatcher{suffix: suffix}
}

type nameSuffixMatcher struct {
	suffix string
}

func (m nameSuffixMatcher) Matches(f schema.Field) bool {
	return strings.HasSuffix(f.Name, m.suffix)
}

// Typed matches fields whose Go type expression equals goType.
func Typed(goType string) Matcher {
	return typedMatcher{goType: goType}
}

type typedMatcher struct {
	goType string
}

func (m typedMatcher) Matches(f schema.Field) bool {
	return f.Type == m.goType
}

// Exported matches fields whose name is exported in Go terms, i.e. starts
// with an upper-case letter. Fields with snake_case schema names do not
// match; only names already in Go form do.
func Exported() Matcher {
	return exportedMatcher{}
}

type exportedMatcher struct{}

func (exportedMatcher) Matches(f schema.Field) bool {
	r, _ := utf8.DecodeRuneInString(f.Name)
	return unicode.IsUpper(r)
}

// Nullable matches nullable fields.
func Nullable() Matcher {
	return nullableMatcher{}
}

type nullableMatcher struct{}

func (nullableMatcher) Matches(f schema.Field) bool { return f.Nullable }

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return notMatcher{inner: m}
}

type notMatcher struct {
	inner Matcher
}

func (m notMatcher) Matches(f schema.Field) bool {
	return !m.inner.Matches(f)
}

// All matches fields accepted by every given matcher.
// With no arguments it behaves like Any.
func All(matchers ...Matcher) Matcher {
	return allMatcher{matchers: matchers}
}

type allMatcher struct {
	matchers []Matcher
}

func (m allMatcher) Matches(f schema.Field) bool {
	for _, inner := range m.matchers {
		if !inner.Matches(f) {
			return false
		}
	}
	return true
}

// AnyOf matches fields accepted by at least one of the given matchers.
// With no arguments it behaves like None.
func AnyOf(matchers ...Matcher) Matcher {
	return anyOfMatcher{matchers: matchers}
}

type anyOfMatcher struct {
	matchers []Matcher
}

func (m anyOfMatcher) Matches(f schema.Field) bool {
	for _, inner := range m.matchers {
		if inner.Matches(f) {
			return true
		}
	}
	return false
}
