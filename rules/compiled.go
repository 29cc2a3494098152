package rules

import (
	"fmt"

	"github.com/structsmith/structsmith/attribute"
	"github.com/structsmith/structsmith/match"
	"github.com/structsmith/structsmith/schema"
)

// Compiled is a registry bound to one target type: an ordered sequence of
// resolved rules ready for dispatch. It is immutable after construction and
// safe for concurrent Resolve calls. The zero value resolves every field to
// an implicit binding, which makes it a usable stand-in where no rules apply.
type Compiled struct {
	target  *schema.Type
	entries []compiledRule
}

// compiledRule is one rule bound to the target: the resolved predicate, the
// shared appender instance, and the still-deferred transform.
type compiledRule struct {
	matcher      match.Matcher
	appender     attribute.Appender
	defaultValue any
	transformer  Transformer
}

// Target returns the type this registry was compiled for.
func (c *Compiled) Target() *schema.Type {
	return c.target
}

// Len returns the number of compiled rules.
func (c *Compiled) Len() int {
	return len(c.entries)
}

// Resolve scans the compiled rules in priority order and returns the binding
// of the first rule whose predicate accepts the field. Rules past the first
// match are never evaluated. The winning rule's transform runs now, against
// the field being resolved. When no rule matches, the result is an implicit
// binding carrying the field unchanged.
func (c *Compiled) Resolve(f schema.Field) Binding {
	for _, entry := range c.entries {
		if entry.matcher.Matches(f) {
			return explicitBinding{
				appender:     entry.appender,
				defaultValue: entry.defaultValue,
				field:        entry.transformer.Transform(c.target, f),
			}
		}
	}
	return implicitBinding{field: f}
}

// String returns a short human-readable summary.
func (c *Compiled) String() string {
	name := "<nil>"
	if c.target != nil {
		name = c.target.QualifiedName()
	}
	return fmt.Sprintf("rules.Compiled(%s, %d rules)", name, len(c.entries))
}

// Binding is the dispatch outcome for one field: either explicit (a rule
// matched, carrying the rule's appender, optional default value, and the
// transformed field) or implicit (no rule matched, carrying the original
// field untouched).
type Binding interface {
	// Explicit reports whether a rule matched.
	Explicit() bool
	// Field returns the field descriptor to emit: transformed for explicit
	// bindings, original for implicit ones.
	Field() schema.Field
	// Appender returns the appender to apply, or nil for implicit bindings.
	Appender() attribute.Appender
	// Default returns the constant default value and whether one is present.
	// Implicit bindings never carry one.
	Default() (any, bool)
}

// Implicit returns the binding used when no rule applies to a field. Sinks
// that skip compilation entirely can construct it directly.
func Implicit(f schema.Field) Binding {
	return implicitBinding{field: f}
}

type implicitBinding struct {
	field schema.Field
}

func (b implicitBinding) Explicit() bool { return false }

func (b implicitBinding) Field() schema.Field { return b.field }

func (b implicitBinding) Appender() attribute.Appender { return nil }

func (b implicitBinding) Default() (any, bool) { return nil, false }

type explicitBinding struct {
	appender     attribute.Appender
	defaultValue any
	field        schema.Field
}

func (b explicitBinding) Explicit() bool { return true }

func (b explicitBinding) Field() schema.Field { return b.field }

func (b explicitBinding) Appender() attribute.Appender { return b.appender }

func (b explicitBinding) Default() (any, bool) {
	return b.defaultValue, b.defaultValue != nil
}
