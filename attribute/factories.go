package attribute

import "github.com/structsmith/structsmith/schema"

// ForTag returns a factory whose appender sets a fixed struct tag entry.
func ForTag(key, value string) Factory {
	return tagFactory{key: key, value: value}
}

type tagFactory struct {
	key   string
	value string
}

func (f tagFactory) Make(*schema.Type) Appender {
	return tagAppender(f)
}

type tagAppender struct {
	key   string
	value string
}

func (a tagAppender) Append(rec *Record, _ schema.Field) {
	rec.SetTag(a.key, a.value)
}

// ForJSONTag returns a factory whose appender sets a json tag derived from
// the field name, with omitempty added for nullable fields.
func ForJSONTag() Factory {
	return jsonTagFactory{}
}

type jsonTagFactory struct{}

func (jsonTagFactory) Make(*schema.Type) Appender {
	return jsonTagAppender{}
}

type jsonTagAppender struct{}

func (jsonTagAppender) Append(rec *Record, f schema.Field) {
	value := f.Name
	if f.Nullable {
		value += ",omitempty"
	}
	rec.SetTag("json", value)
}

// ForColumnTag returns a factory whose appender sets a db tag with the
// field's column name. Field names are assumed to already be snake_case.
func ForColumnTag() Factory {
	return columnTagFactory{}
}

type columnTagFactory struct{}

func (columnTagFactory) Make(*schema.Type) Appender {
	return columnTagAppender{}
}

type columnTagAppender struct{}

func (columnTagAppender) Append(rec *Record, f schema.Field) {
	rec.SetTag("db", f.Name)
}

// ForDoc returns a factory whose appender adds a doc comment line to
// every matched field.
func ForDoc(line string) Factory {
	return docFactory{line: line}
}

type docFactory struct {
	line string
}

func (f docFactory) Make(*schema.Type) Appender {
	return docAppender(f)
}

type docAppender struct {
	line string
}

func (a docAppender) Append(rec *Record, _ schema.Field) {
	rec.AddDoc(a.line)
}

// Combined returns a factory that builds one appender per part and applies
// them in order. Two Combined factories built from the same parts in the
// same order compare equal for deduplication purposes.
func Combined(factories ...Factory) Factory {
	return combinedFactory{factories: factories}
}

type combinedFactory struct {
	factories []Factory
}

func (c combinedFactory) Make(target *schema.Type) Appender {
	appenders := make([]Appender, len(c.factories))
	for i, f := range c.factories {
		appenders[i] = f.Make(target)
	}
	return Compound(appenders...)
}
