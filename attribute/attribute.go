// Package attribute defines the metadata side of field emission: the Record
// that accumulates struct tags and doc lines for one emitted field, the
// Appender that writes into it, and the Factory that builds appenders for a
// specific target type.
package attribute

import (
	"fmt"
	"strings"

	"github.com/structsmith/structsmith/schema"
)

// TagEntry is a single struct tag key/value pair.
type TagEntry struct {
	Key   string
	Value string
}

// Record accumulates the metadata attached to one emitted field:
// struct tag entries and doc comment lines. Appenders write into it;
// the emission pipeline renders it. A Record is not safe for concurrent
// use; each emitted field gets its own.
type Record struct {
	tags []TagEntry
	doc  []string
}

// SetTag sets a struct tag entry. A repeated key replaces the earlier
// value in place, keeping the original position; new keys append.
func (r *Record) SetTag(key, value string) {
	for i, entry := range r.tags {
		if entry.Key == key {
			r.tags[i].Value = value
			return
		}
	}
	r.tags = append(r.tags, TagEntry{Key: key, Value: value})
}

// Tags returns the tag entries in insertion order.
func (r *Record) Tags() []TagEntry {
	out := make([]TagEntry, len(r.tags))
	copy(out, r.tags)
	return out
}

// AddDoc appends a doc comment line.
func (r *Record) AddDoc(line string) {
	r.doc = append(r.doc, line)
}

// Doc returns the accumulated doc comment lines.
func (r *Record) Doc() []string {
	out := make([]string, len(r.doc))
	copy(out, r.doc)
	return out
}

// TagString renders the accumulated tags as a Go struct tag literal,
// e.g. `db:"id" json:"id"`. It returns the empty string when no tags
// were appended.
func (r *Record) TagString() string {
	if len(r.tags) == 0 {
		return ""
	}
	parts := make([]string, len(r.tags))
	for i, entry := range r.tags {
		parts[i] = fmt.Sprintf("%s:%q", entry.Key, entry.Value)
	}
	return "`" + strings.Join(parts, " ") + "`"
}

// Appender appends metadata for one field to a record.
type Appender interface {
	Append(rec *Record, f schema.Field)
}

// AppenderFunc adapts a plain function to the Appender interface.
type AppenderFunc func(rec *Record, f schema.Field)

// Append invokes the wrapped function.
func (fn AppenderFunc) Append(rec *Record, f schema.Field) {
	fn(rec, f)
}

// Factory builds an appender for a specific target type. Factory values
// double as deduplication keys during rule compilation: two rules holding
// equal factory values share one appender instance per compile. Factories
// must therefore be values with well-defined equality; stock factories in
// this package all qualify.
type Factory interface {
	Make(target *schema.Type) Appender
}

// NoOp appends nothing. It is its own factory.
var NoOp = noOp{}

type noOp struct{}

func (noOp) Make(*schema.Type) Appender { return NoOp }

func (noOp) Append(*Record, schema.Field) {}

// Compound applies the given appenders in order.
func Compound(appenders ...Appender) Appender {
	return compoundAppender{appenders: appenders}
}

type compoundAppender struct {
	appenders []Appender
}

func (c compoundAppender) Append(rec *Record, f schema.Field) {
	for _, a := range c.appenders {
		a.Append(rec, f)
	}
}
