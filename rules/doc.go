// Package rules implements the two-phase rule registry that decides, for
// each field of a type under construction, which attribute appender,
// constant default value, and field transform apply.
//
// # Overview
//
// A Registry is an ordered, immutable sequence of rules. Each rule pairs a
// latent matcher (a predicate not yet bound to a target type) with an
// attribute appender factory, an optional default value, and a field
// transform. Registries are extended with Prepend, which returns a new
// registry whose newest rule has the highest dispatch priority: configuration
// declared later overrides earlier configuration for overlapping selectors
// without any explicit priority numbers.
//
// Compilation binds a registry to one target type:
//
//	compiled := registry.Compile(target)
//
// Compile resolves every latent matcher against the target and instantiates
// appender factories, deduplicating them so that a given factory value is
// invoked at most once per compile no matter how many rules reference it.
// The resulting Compiled value is immutable and safe for concurrent use.
//
// Dispatch is a first-match scan:
//
//	binding := compiled.Resolve(field)
//
// The first rule whose resolved matcher accepts the field wins; rules past
// the first match are never evaluated, so configurations are overridden, not
// merged. A field matched by no rule yields an implicit binding carrying the
// original descriptor unchanged — the defined default, not an error.
//
// # Example
//
//	registry := rules.NewRegistry().
//		Prepend(match.Resolved(match.Any), attribute.ForJSONTag(), nil, nil).
//		Prepend(match.Resolved(match.Named("id")), attribute.ForTag("db", "id"), int64(0), nil)
//
//	compiled := registry.Compile(target)
//	for _, field := range target.Fields {
//		binding := compiled.Resolve(field)
//		// render the field using binding.Appender, binding.Default, binding.Field
//	}
//
// The package performs no validation of rule content and defines no error
// kinds: failures inside matchers, factories, or transforms propagate to the
// caller untouched.
package rules
