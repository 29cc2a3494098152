package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsmith/structsmith/attribute"
	"github.com/structsmith/structsmith/match"
	"github.com/structsmith/structsmith/schema"
)

// countingFactory counts Make invocations and hands out one appender
// instance per call so tests can check instance sharing.
type countingFactory struct {
	id    string
	calls *int
}

func (f countingFactory) Make(*schema.Type) attribute.Appender {
	*f.calls++
	return &markerAppender{factory: f.id}
}

type markerAppender struct {
	factory string
}

func (a *markerAppender) Append(rec *attribute.Record, _ schema.Field) {
	rec.SetTag("made_by", a.factory)
}

// countingMatcher counts predicate evaluations.
type countingMatcher struct {
	name  string
	calls *int
}

func (m countingMatcher) Matches(f schema.Field) bool {
	*m.calls++
	return f.Name == m.name
}

// recordingTransformer records which fields it was applied to.
type recordingTransformer struct {
	seen *[]string
}

func (t recordingTransformer) Transform(_ *schema.Type, f schema.Field) schema.Field {
	*t.seen = append(*t.seen, f.Name)
	return f.WithDoc("transformed")
}

func testTarget() *schema.Type {
	return schema.NewType("models", "User",
		schema.Field{Name: "x", Type: "string"},
		schema.Field{Name: "y", Type: "int64"},
	)
}

func TestPrependPriorityOrder(t *testing.T) {
	matchX := match.Resolved(match.Named("x"))

	registry := NewRegistry().
		Prepend(matchX, attribute.NoOp, 1, nil).
		Prepend(matchX, attribute.NoOp, 2, nil).
		Prepend(matchX, attribute.NoOp, 3, nil)

	binding := registry.Compile(testTarget()).Resolve(schema.Field{Name: "x", Type: "string"})

	require.True(t, binding.Explicit())
	value, ok := binding.Default()
	require.True(t, ok)
	assert.Equal(t, 3, value, "last-prepended rule must win")
}

func TestResolveShortCircuit(t *testing.T) {
	var highCalls, lowCalls int
	var lowSeen []string

	// The low-priority rule is prepended first, the high-priority rule last.
	registry := NewRegistry().
		Prepend(match.Resolved(countingMatcher{name: "x", calls: &lowCalls}), attribute.NoOp, nil, recordingTransformer{seen: &lowSeen}).
		Prepend(match.Resolved(countingMatcher{name: "x", calls: &highCalls}), attribute.NoOp, nil, nil)

	compiled := registry.Compile(testTarget())
	binding := compiled.Resolve(schema.Field{Name: "x", Type: "string"})

	require.True(t, binding.Explicit())
	assert.Equal(t, 1, highCalls)
	assert.Equal(t, 0, lowCalls, "predicates after the first match must not be evaluated")
	assert.Empty(t, lowSeen, "transforms after the first match must not run")
}

func TestFactoryDeduplication(t *testing.T) {
	var calls int
	shared := countingFactory{id: "shared", calls: &calls}

	registry := NewRegistry().
		Prepend(match.Resolved(match.Named("y")), shared, nil, nil).
		Prepend(match.Resolved(match.Named("x")), shared, nil, nil)

	compiled := registry.Compile(testTarget())
	require.Equal(t, 1, calls, "a factory value must be invoked at most once per compile")

	bindingX := compiled.Resolve(schema.Field{Name: "x"})
	bindingY := compiled.Resolve(schema.Field{Name: "y"})
	assert.Same(t, bindingX.Appender(), bindingY.Appender(),
		"rules sharing a factory must share one appender instance")

	registry.Compile(testTarget())
	assert.Equal(t, 2, calls, "each compile owns its own factory cache")
}

func TestDistinctFactoriesNotDeduplicated(t *testing.T) {
	var callsA, callsB int

	registry := NewRegistry().
		Prepend(match.Resolved(match.Named("x")), countingFactory{id: "a", calls: &callsA}, nil, nil).
		Prepend(match.Resolved(match.Named("y")), countingFactory{id: "b", calls: &callsB}, nil, nil)

	registry.Compile(testTarget())
	assert.Equal(t, 1, callsA)
	assert.Equal(t, 1, callsB)
}

func TestNoMatchYieldsImplicitBinding(t *testing.T) {
	registry := NewRegistry().
		Prepend(match.Resolved(match.Named("x")), attribute.NoOp, 7, nil)

	original := schema.Field{Name: "y", Type: "int64", Doc: "untouched"}
	binding := registry.Compile(testTarget()).Resolve(original)

	assert.False(t, binding.Explicit())
	assert.Equal(t, original, binding.Field(), "implicit binding must carry the untransformed field")
	assert.Nil(t, binding.Appender())
	_, ok := binding.Default()
	assert.False(t, ok)
}

func TestPrependDoesNotMutateReceiver(t *testing.T) {
	base := NewRegistry().
		Prepend(match.Resolved(match.Named("x")), attribute.NoOp, 1, nil)
	snapshot := base

	extended := base.Prepend(match.Resolved(match.Any), attribute.NoOp, 2, nil)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.True(t, base.Equal(snapshot))

	// The original still resolves as before for any field.
	binding := base.Compile(testTarget()).Resolve(schema.Field{Name: "x", Type: "string"})
	value, ok := binding.Default()
	require.True(t, ok)
	assert.Equal(t, 1, value)

	binding = base.Compile(testTarget()).Resolve(schema.Field{Name: "y"})
	assert.False(t, binding.Explicit())
}

func TestCompileIsRepeatable(t *testing.T) {
	registry := NewRegistry().
		Prepend(match.Resolved(match.Nullable()), attribute.ForJSONTag(), nil, nil).
		Prepend(match.Resolved(match.Named("x")), attribute.ForColumnTag(), "dx", nil)

	target := testTarget()
	first := registry.Compile(target)
	second := registry.Compile(target)

	for _, f := range []schema.Field{
		{Name: "x", Type: "string"},
		{Name: "y", Type: "int64", Nullable: true},
		{Name: "z", Type: "bool"},
	} {
		a := first.Resolve(f)
		b := second.Resolve(f)
		assert.Equal(t, a.Explicit(), b.Explicit())
		assert.Equal(t, a.Field(), b.Field())
		aValue, aOK := a.Default()
		bValue, bOK := b.Default()
		assert.Equal(t, aOK, bOK)
		assert.Equal(t, aValue, bValue)
	}
}

func TestTransformRunsLazilyPerField(t *testing.T) {
	var seen []string
	registry := NewRegistry().
		Prepend(match.Resolved(match.Any), attribute.NoOp, nil, recordingTransformer{seen: &seen})

	compiled := registry.Compile(testTarget())
	require.Empty(t, seen, "compile must not apply transforms")

	bindingX := compiled.Resolve(schema.Field{Name: "x", Type: "string"})
	bindingY := compiled.Resolve(schema.Field{Name: "y", Type: "int64"})

	assert.Equal(t, []string{"x", "y"}, seen)
	assert.Equal(t, "x", bindingX.Field().Name)
	assert.Equal(t, "transformed", bindingX.Field().Doc)
	assert.Equal(t, "y", bindingY.Field().Name)
}

func TestSingleRuleEndToEnd(t *testing.T) {
	var calls int
	factory := countingFactory{id: "f", calls: &calls}

	registry := NewRegistry().
		Prepend(match.Resolved(match.Named("x")), factory, 7, nil)

	compiled := registry.Compile(testTarget())

	explicit := compiled.Resolve(schema.Field{Name: "x", Type: "string"})
	require.True(t, explicit.Explicit())
	value, ok := explicit.Default()
	require.True(t, ok)
	assert.Equal(t, 7, value)
	require.IsType(t, &markerAppender{}, explicit.Appender())
	assert.Equal(t, 1, calls)

	implicit := compiled.Resolve(schema.Field{Name: "y", Type: "int64"})
	assert.False(t, implicit.Explicit())
	assert.Equal(t, schema.Field{Name: "y", Type: "int64"}, implicit.Field())
}

func TestZeroValueCompiledResolvesImplicit(t *testing.T) {
	var compiled Compiled

	f := schema.Field{Name: "anything", Type: "string"}
	binding := compiled.Resolve(f)

	assert.False(t, binding.Explicit())
	assert.Equal(t, f, binding.Field())
}

func TestPrependNormalizesNilCollaborators(t *testing.T) {
	registry := NewRegistry().
		Prepend(match.Resolved(match.Any), nil, nil, nil)

	binding := registry.Compile(testTarget()).Resolve(schema.Field{Name: "x"})

	require.True(t, binding.Explicit())
	assert.Equal(t, attribute.NoOp, binding.Appender())
	_, ok := binding.Default()
	assert.False(t, ok)
	assert.Equal(t, schema.Field{Name: "x"}, binding.Field())
}

func TestRegistryEquality(t *testing.T) {
	var calls int
	factory := countingFactory{id: "f", calls: &calls}
	matchX := match.Resolved(match.Named("x"))
	matchY := match.Resolved(match.Named("y"))

	a := NewRegistry().Prepend(matchX, factory, 7, nil).Prepend(matchY, factory, nil, nil)
	b := NewRegistry().Prepend(matchX, factory, 7, nil).Prepend(matchY, factory, nil, nil)
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	// Order matters.
	c := NewRegistry().Prepend(matchY, factory, nil, nil).Prepend(matchX, factory, 7, nil)
	assert.False(t, a.Equal(c))

	// Default values compare by nullable value equality.
	d := NewRegistry().Prepend(matchX, factory, nil, nil).Prepend(matchY, factory, nil, nil)
	assert.False(t, a.Equal(d))

	// Prepending produces an unequal registry.
	assert.False(t, a.Equal(a.Prepend(matchX, factory, 1, nil)))

	// Empty registries are equal.
	assert.True(t, NewRegistry().Equal(Registry{}))
}

func TestRegistryString(t *testing.T) {
	registry := NewRegistry().Prepend(match.Resolved(match.Any), nil, nil, nil)
	assert.Equal(t, "rules.Registry(1 rules)", registry.String())

	compiled := registry.Compile(testTarget())
	assert.Equal(t, "rules.Compiled(models.User, 1 rules)", compiled.String())
}
