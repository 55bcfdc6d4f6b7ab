// Package store defines the user record store interface and its backends.
package store

import "errors"

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("user not found")

// User is a single persisted user record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Fields holds the mutable fields of a user, all of them required.
// Used by Insert and Replace.
type Fields struct {
	Name  string
	Email string
}

// Patch holds a partial update. A nil or blank field is left untouched.
type Patch struct {
	Name  *string
	Email *string
}

// apply returns a copy of u with the non-blank fields of p written over it.
func (p Patch) apply(u User) User {
	if p.Name != nil && *p.Name != "" {
		u.Name = *p.Name
	}
	if p.Email != nil && *p.Email != "" {
		u.Email = *p.Email
	}
	return u
}

// Store is the interface that all backing stores must implement.
// Every mutating call persists the whole change before returning, and
// returned records are copies that callers may modify freely.
type Store interface {
	// List returns every record in id order.
	List() ([]User, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(id int) (User, error)

	// Insert assigns the next id (max existing id + 1, or 1) and stores the record.
	Insert(f Fields) (User, error)

	// Replace overwrites name and email of an existing record, keeping its id.
	Replace(id int, f Fields) (User, error)

	// Patch overwrites only the provided, non-blank fields of an existing record.
	Patch(id int, p Patch) (User, error)

	// Delete removes a record and returns it.
	Delete(id int) (User, error)

	// Close releases any resources held by the store.
	Close() error
}

// nextID returns max(id)+1 over users, or 1 when users is empty.
func nextID(users []User) int {
	highest := 0
	for _, u := range users {
		if u.ID > highest {
			highest = u.ID
		}
	}
	return highest + 1
}

// indexOf returns the position of the record with id, or -1.
func indexOf(users []User, id int) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
