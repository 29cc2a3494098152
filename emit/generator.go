// Package emit renders Go struct source for a type under construction,
// resolving every field through a compiled rule registry to decide its
// struct tags, doc lines, and default value.
package emit

import (
	"bytes"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/structsmith/structsmith/attribute"
	"github.com/structsmith/structsmith/rules"
	"github.com/structsmith/structsmith/schema"
)

// Generator renders struct definitions. It is not safe for concurrent use;
// create one generator per goroutine.
type Generator struct {
	buf    bytes.Buffer
	indent int
	log    *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for debug output during generation.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// NewGenerator creates a generator. Without WithLogger it stays silent.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateStruct renders the Go struct definition for the target type,
// resolving each declared field through the compiled registry. Fields with
// an explicit binding get their appender's tags and doc lines and their
// transformed descriptor; fields with a default value are additionally
// collected into a generated constructor. Field order follows the schema.
func (g *Generator) GenerateStruct(target *schema.Type, compiled *rules.Compiled) (string, error) {
	if target == nil {
		return "", fmt.Errorf("emit: nil target type")
	}
	if target.Name == "" {
		return "", fmt.Errorf("emit: target type in package %q has no name", target.Package)
	}
	if compiled == nil {
		return "", fmt.Errorf("emit: nil compiled registry for %s", target.QualifiedName())
	}

	g.buf.Reset()
	g.indent = 0

	type fieldRow struct {
		doc  []string
		name string
		typ  string
		tags string
	}

	type defaultEntry struct {
		name  string
		value any
	}

	rows := make([]fieldRow, 0, len(target.Fields))
	var defaults []defaultEntry

	for _, field := range target.Fields {
		binding := compiled.Resolve(field)
		emitted := binding.Field()

		var rec attribute.Record
		if binding.Explicit() {
			binding.Appender().Append(&rec, emitted)
		}

		g.log.Debug("resolved field binding",
			zap.String("type", target.QualifiedName()),
			zap.String("field", field.Name),
			zap.Bool("explicit", binding.Explicit()))

		rows = append(rows, fieldRow{
			doc:  rec.Doc(),
			name: goFieldName(emitted.Name),
			typ:  emitted.Type,
			tags: rec.TagString(),
		})

		if value, ok := binding.Default(); ok {
			defaults = append(defaults, defaultEntry{name: goFieldName(emitted.Name), value: value})
		}
	}

	if target.Doc != "" {
		g.writeLine("// %s", target.Doc)
	}
	g.writeLine("type %s struct {", target.Name)
	g.indent++

	maxNameLen, maxTypeLen := 0, 0
	for _, row := range rows {
		if len(row.name) > maxNameLen {
			maxNameLen = len(row.name)
		}
		if len(row.typ) > maxTypeLen {
			maxTypeLen = len(row.typ)
		}
	}

	for _, row := range rows {
		for _, line := range row.doc {
			g.writeLine("// %s", line)
		}
		if row.tags == "" {
			g.writeLine("%s%s %s", row.name, pad(maxNameLen-len(row.name)), row.typ)
			continue
		}
		g.writeLine("%s%s %s%s %s",
			row.name, pad(maxNameLen-len(row.name)),
			row.typ, pad(maxTypeLen-len(row.typ)),
			row.tags)
	}

	g.indent--
	g.writeLine("}")

	if len(defaults) > 0 {
		g.writeLine("")
		g.writeLine("// New%s returns a %s with registry defaults applied.", target.Name, target.Name)
		g.writeLine("func New%s() *%s {", target.Name, target.Name)
		g.indent++
		g.writeLine("return &%s{", target.Name)
		g.indent++
		for _, d := range defaults {
			g.writeLine("%s: %s,", d.name, literal(d.value))
		}
		g.indent--
		g.writeLine("}")
		g.indent--
		g.writeLine("}")
	}

	return g.buf.String(), nil
}

// writeLine writes an indented, formatted line to the output buffer.
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format != "" {
		g.buf.WriteString(strings.Repeat("\t", g.indent))
		fmt.Fprintf(&g.buf, format, args...)
	}
	g.buf.WriteByte('\n')
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// literal renders a default value as a Go literal.
func literal(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%#v", v)
}

// initialisms lists name parts that stay upper-case in Go field names.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"uuid": "UUID",
	"api":  "API",
	"json": "JSON",
	"html": "HTML",
	"sql":  "SQL",
	"ip":   "IP",
}

// goFieldName converts a snake_case field name to an exported Go name.
func goFieldName(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			parts[i] = upper
			continue
		}
		parts[i] = strings.ToUpper(part[0:1]) + part[1:]
	}
	return strings.Join(parts, "")
}
