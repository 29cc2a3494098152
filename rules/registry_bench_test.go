package rules

import (
	"fmt"
	"testing"

	"github.com/structsmith/structsmith/attribute"
	"github.com/structsmith/structsmith/match"
	"github.com/structsmith/structsmith/schema"
)

func benchRegistry(n int) Registry {
	registry := NewRegistry()
	shared := attribute.ForJSONTag()
	for i := 0; i < n; i++ {
		registry = registry.Prepend(match.Resolved(match.Named(fmt.Sprintf("field_%d", i))), shared, nil, nil)
	}
	return registry
}

// BenchmarkCompile measures matcher resolution plus factory dedup for a
// registry of 50 rules sharing one factory.
func BenchmarkCompile(b *testing.B) {
	registry := benchRegistry(50)
	target := schema.NewType("models", "Bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		registry.Compile(target)
	}
}

// BenchmarkResolveFirstRule measures dispatch when the highest-priority
// rule matches immediately.
func BenchmarkResolveFirstRule(b *testing.B) {
	compiled := benchRegistry(50).Compile(schema.NewType("models", "Bench"))
	field := schema.Field{Name: "field_49", Type: "string"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		compiled.Resolve(field)
	}
}

// BenchmarkResolveNoMatch measures the full scan to an implicit binding.
func BenchmarkResolveNoMatch(b *testing.B) {
	compiled := benchRegistry(50).Compile(schema.NewType("models", "Bench"))
	field := schema.Field{Name: "unmatched", Type: "string"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		compiled.Resolve(field)
	}
}
