package users_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-user-server/store"
	"github.com/stevemurr/simple-user-server/users"
)

func ptr(s string) *string { return &s }

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{"7x", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			id, err := users.ParseID(tc.raw)
			if !tc.ok {
				assert.ErrorIs(t, err, users.ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestDecodeBody(t *testing.T) {
	b, err := users.DecodeBody([]byte(`{"name": "Ana", "email": "ana@mail.com", "role": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ana", *b.Name)
	assert.Equal(t, "ana@mail.com", *b.Email)

	b, err = users.DecodeBody([]byte(`{"name": "Ana"}`))
	require.NoError(t, err)
	assert.Nil(t, b.Email)

	b, err = users.DecodeBody(nil)
	require.NoError(t, err)
	assert.Nil(t, b.Name)
	assert.Nil(t, b.Email)

	for _, raw := range []string{`{`, `[1, 2]`, `{"name": 5}`, `{"email": null}`} {
		_, err := users.DecodeBody([]byte(raw))
		assert.ErrorIs(t, err, users.ErrInvalidBody, raw)
	}
}

func TestValidateFull(t *testing.T) {
	tests := []struct {
		name string
		body users.Body
		want error
	}{
		{"valid", users.Body{Name: ptr("Ana"), Email: ptr("ana@mail.com")}, nil},
		{"padded email", users.Body{Name: ptr("Ana"), Email: ptr("  ANA@Mail.com ")}, nil},
		{"missing name", users.Body{Email: ptr("ana@mail.com")}, users.ErrMissingField},
		{"blank name", users.Body{Name: ptr("   "), Email: ptr("ana@mail.com")}, users.ErrMissingField},
		{"missing email", users.Body{Name: ptr("Ana")}, users.ErrMissingField},
		{"no tld", users.Body{Name: ptr("Ana"), Email: ptr("ana@mail")}, users.ErrInvalidEmailFormat},
		{"double at", users.Body{Name: ptr("Ana"), Email: ptr("ana@@mail.com")}, users.ErrInvalidEmailFormat},
		{"short tld", users.Body{Name: ptr("Ana"), Email: ptr("ana@mail.c")}, users.ErrInvalidEmailFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := users.ValidateFull(tc.body)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidatePatch(t *testing.T) {
	tests := []struct {
		name string
		body users.Body
		want error
	}{
		{"name only", users.Body{Name: ptr("Bob")}, nil},
		{"email only", users.Body{Email: ptr("bob@mail.com")}, nil},
		{"empty", users.Body{}, users.ErrEmptyPatch},
		{"blank fields", users.Body{Name: ptr(" "), Email: ptr("")}, users.ErrEmptyPatch},
		{"bad email", users.Body{Email: ptr("bob")}, users.ErrInvalidEmailFormat},
		{"name with blank email", users.Body{Name: ptr("Bob"), Email: ptr("  ")}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := users.ValidatePatch(tc.body)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	b := users.Normalize(users.Body{Name: ptr("  Ana  "), Email: ptr(" ANA@Mail.COM ")})
	assert.Equal(t, "Ana", *b.Name)
	assert.Equal(t, "ana@mail.com", *b.Email)

	again := users.Normalize(b)
	assert.Equal(t, *b.Name, *again.Name)
	assert.Equal(t, *b.Email, *again.Email)

	partial := users.Normalize(users.Body{Name: ptr(" Bob ")})
	assert.Equal(t, "Bob", *partial.Name)
	assert.Nil(t, partial.Email)
}

func TestNormalizeDoesNotAliasInput(t *testing.T) {
	name := "  Ana "
	in := users.Body{Name: &name}
	users.Normalize(in)
	assert.Equal(t, "  Ana ", name)
}

func TestCheckUniqueEmail(t *testing.T) {
	existing := []store.User{
		{ID: 1, Name: "Ana", Email: "ana@mail.com"},
		{ID: 2, Name: "Bob", Email: "bob@mail.com"},
	}
	assert.NoError(t, users.CheckUniqueEmail(existing, "cid@mail.com", 0))
	assert.ErrorIs(t, users.CheckUniqueEmail(existing, "ana@mail.com", 0), users.ErrEmailConflict)
	assert.ErrorIs(t, users.CheckUniqueEmail(existing, "ANA@mail.com", 0), users.ErrEmailConflict)
	assert.NoError(t, users.CheckUniqueEmail(existing, "ana@mail.com", 1), "own email is not a conflict")
	assert.ErrorIs(t, users.CheckUniqueEmail(existing, "ana@mail.com", 2), users.ErrEmailConflict)
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, users.KindEmptyPatch, users.KindOf(users.ErrEmptyPatch))
	assert.Equal(t, users.Kind(""), users.KindOf(assert.AnError))
	assert.NotErrorIs(t, users.ErrEmptyPatch, users.ErrMissingField)
}
