// Package schema defines the descriptor model for types under construction.
// A Type describes the target type being assembled by a generator; a Field
// describes one of its members. Descriptors are immutable values: every
// modifier returns a copy and never touches the receiver.
package schema

// Field describes one member of a type under construction.
// It is a plain comparable value; two fields are the same field
// exactly when all of their parts are equal.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // Go type expression, e.g. "string", "sql.NullInt64"
	Nullable bool   `json:"nullable"`
	Doc      string `json:"doc,omitempty"`
}

// WithName returns a copy of the field renamed to name.
func (f Field) WithName(name string) Field {
	f.Name = name
	return f
}

// WithType returns a copy of the field with its Go type replaced.
func (f Field) WithType(goType string) Field {
	f.Type = goType
	return f
}

// WithDoc returns a copy of the field with its doc comment replaced.
func (f Field) WithDoc(doc string) Field {
	f.Doc = doc
	return f
}

// AsNullable returns a copy of the field marked nullable.
func (f Field) AsNullable() Field {
	f.Nullable = true
	return f
}

// Equal reports whether two fields are identical.
func (f Field) Equal(other Field) bool {
	return f == other
}

// Type describes the type under construction: the target context that
// latent matchers, appender factories, and field transforms are bound to.
type Type struct {
	Package string  `json:"package"`
	Name    string  `json:"name"`
	Doc     string  `json:"doc,omitempty"`
	Fields  []Field `json:"fields"`
}

// NewType creates a type descriptor for the given package and name.
func NewType(pkg, name string, fields ...Field) *Type {
	return &Type{
		Package: pkg,
		Name:    name,
		Fields:  fields,
	}
}

// Field returns the declared field with the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Declares reports whether the type declares a field equal to f.
func (t *Type) Declares(f Field) bool {
	declared, ok := t.Field(f.Name)
	return ok && declared == f
}

// QualifiedName returns the package-qualified type name, e.g. "models.User".
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}
