package match

import "github.com/structsmith/structsmith/schema"

// Latent is a matcher that is not yet bound to a target type.
// Resolve binds it to one and must be deterministic for a fixed target:
// resolving the same latent against the same type twice yields matchers
// with identical behavior.
type Latent interface {
	Resolve(target *schema.Type) Matcher
}

// LatentFunc adapts a plain function to the Latent interface.
type LatentFunc func(target *schema.Type) Matcher

// Resolve invokes the wrapped function.
func (fn LatentFunc) Resolve(target *schema.Type) Matcher {
	return fn(target)
}

// Resolved lifts an already concrete matcher to a latent one that
// ignores the target type.
func Resolved(m Matcher) Latent {
	return resolvedLatent{matcher: m}
}

type resolvedLatent struct {
	matcher Matcher
}

func (l resolvedLatent) Resolve(*schema.Type) Matcher {
	return l.matcher
}

// Declared is a latent matcher that, once resolved, matches only fields
// the target type actually declares.
func Declared() Latent {
	return declaredLatent{}
}

type declaredLatent struct{}

func (declaredLatent) Resolve(target *schema.Type) Matcher {
	return declaredMatcher{target: target}
}

type declaredMatcher struct {
	target *schema.Type
}

func (m declaredMatcher) Matches(f schema.Field) bool {
	return m.target != nil && m.target.Declares(f)
}

// LatentAll resolves every latent against the target and matches fields
// accepted by all of the resulting matchers.
func LatentAll(latents ...Latent) Latent {
	return latentAll{latents: latents}
}

type latentAll struct {
	latents []Latent
}

func (l latentAll) Resolve(target *schema.Type) Matcher {
	matchers := make([]Matcher, len(l.latents))
	for i, latent := range l.latents {
		matchers[i] = latent.Resolve(target)
	}
	return All(matchers...)
}

// LatentAnyOf resolves every latent against the target and matches fields
// accepted by at least one of the resulting matchers.
func LatentAnyOf(latents ...Latent) Latent {
	return latentAnyOf{latents: latents}
}

type latentAnyOf struct {
	latents []Latent
}

func (l latentAnyOf) Resolve(target *schema.Type) Matcher {
	matchers := make([]Matcher, len(l.latents))
	for i, latent := range l.latents {
		matchers[i] = latent.Resolve(target)
	}
	return AnyOf(matchers...)
}
