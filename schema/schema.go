// Package schema checks the JSON shape of request bodies.
//
// Only structure is checked here (object-ness, field types, length caps).
// Field semantics such as required values and email format belong to the
// users package, which needs to report them as distinct error kinds.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed user.schema.json
var userSchemaSource string

// UserBody is the compiled schema shared by create, replace and patch bodies.
var UserBody = MustCompile("user.schema.json", userSchemaSource)

// Compile compiles a draft 2020-12 schema from source. name is used as
// the resource URL in error messages.
func Compile(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	return compiler.Compile(name)
}

// MustCompile is like Compile but panics on error.
func MustCompile(name, source string) *jsonschema.Schema {
	s, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

// Error describes the first schema violation found in a document.
type Error struct {
	// Path is the offending location in dot notation, rooted at "$".
	Path    string
	Message string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Message
}

// Validate checks doc, a value produced by encoding/json decoding into
// an any, against s. Returns nil if validation passes or s is nil.
func Validate(s *jsonschema.Schema, doc any) error {
	if s == nil {
		return nil
	}
	err := s.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	leaf := firstLeaf(verr)
	return &Error{Path: dotPath(leaf.InstanceLocation), Message: leaf.Message}
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// dotPath converts a JSON Pointer ("/a/b") to "$.a.b".
func dotPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return "$"
	}
	return "$." + strings.ReplaceAll(pointer, "/", ".")
}
