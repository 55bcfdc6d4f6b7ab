package users

import "strings"

// Normalize trims name and email and lower-cases email. Absent fields
// stay absent. Normalize(Normalize(b)) == Normalize(b).
func Normalize(b Body) Body {
	var out Body
	if b.Name != nil {
		name := strings.TrimSpace(*b.Name)
		out.Name = &name
	}
	if b.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*b.Email))
		out.Email = &email
	}
	return out
}
