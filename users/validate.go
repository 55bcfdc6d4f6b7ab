// Package users implements the user request pipeline: id and body
// validation, normalization, email uniqueness, and the store call.
package users

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/stevemurr/simple-user-server/schema"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Body is a decoded create, replace or patch request body. A nil field
// was absent from the request.
type Body struct {
	Name  *string
	Email *string
}

func (b Body) name() string  { return deref(b.Name) }
func (b Body) email() string { return deref(b.Email) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParseID parses a path id. It must be a base-10 integer >= 1.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// DecodeBody decodes raw as a JSON object with optional string fields
// name and email. An empty body decodes as {}.
func DecodeBody(raw []byte) (Body, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Body{}, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Body{}, wrap(ErrInvalidBody, err)
	}
	if err := schema.Validate(schema.UserBody, doc); err != nil {
		return Body{}, &Error{Kind: KindInvalidBody, Message: "invalid request body: " + err.Error()}
	}
	var b Body
	obj := doc.(map[string]any)
	if v, ok := obj["name"].(string); ok {
		b.Name = &v
	}
	if v, ok := obj["email"].(string); ok {
		b.Email = &v
	}
	return b, nil
}

// ValidEmail reports whether email, ignoring surrounding whitespace,
// looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateFull checks a create or replace body: both fields are required.
func ValidateFull(b Body) error {
	if strings.TrimSpace(b.name()) == "" || strings.TrimSpace(b.email()) == "" {
		return ErrMissingField
	}
	if !ValidEmail(b.email()) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePatch checks a patch body: at least one non-blank field, and a
// well-formed email if one is given.
func ValidatePatch(b Body) error {
	hasName := strings.TrimSpace(b.name()) != ""
	hasEmail := strings.TrimSpace(b.email()) != ""
	if !hasName && !hasEmail {
		return ErrEmptyPatch
	}
	if hasEmail && !ValidEmail(b.email()) {
		return ErrInvalidEmailFormat
	}
	return nil
}
