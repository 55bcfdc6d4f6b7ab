package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JsonFileStore keeps the whole collection in a single JSON file and
// rewrites it on every mutation.
//
// Layout:
//
//	data_dir/
//	  users.json   # [{"id": 1, "name": "...", "email": "..."}, ...]
type JsonFileStore struct {
	mu   sync.RWMutex
	path string
}

// NewJsonFileStore opens the store at path, creating the parent directory
// and an empty array file when they do not exist yet.
func NewJsonFileStore(path string) (*JsonFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &JsonFileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save([]User{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *JsonFileStore) Path() string {
	return s.path
}

// load reads the file. A missing or malformed file is an error: the
// collection is never silently reset to empty.
func (s *JsonFileStore) load() ([]User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *JsonFileStore) save(users []User) error {
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// update runs a read-modify-write cycle under the write lock. fn returns
// the collection to persist and the record to hand back.
func (s *JsonFileStore) update(fn func(users []User) ([]User, User, error)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	next, u, err := fn(users)
	if err != nil {
		return User{}, err
	}
	if err := s.save(next); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *JsonFileStore) List() ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *JsonFileStore) Get(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	i := indexOf(users, id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	return users[i], nil
}

func (s *JsonFileStore) Insert(f Fields) (User, error) {
	return s.update(func(users []User) ([]User, User, error) {
		u := User{ID: nextID(users), Name: f.Name, Email: f.Email}
		return append(users, u), u, nil
	})
}

func (s *JsonFileStore) Replace(id int, f Fields) (User, error) {
	return s.update(func(users []User) ([]User, User, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, User{}, ErrNotFound
		}
		users[i] = User{ID: id, Name: f.Name, Email: f.Email}
		return users, users[i], nil
	})
}

func (s *JsonFileStore) Patch(id int, p Patch) (User, error) {
	return s.update(func(users []User) ([]User, User, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, User{}, ErrNotFound
		}
		users[i] = p.apply(users[i])
		return users, users[i], nil
	})
}

func (s *JsonFileStore) Delete(id int) (User, error) {
	return s.update(func(users []User) ([]User, User, error) {
		i := indexOf(users, id)
		if i < 0 {
			return nil, User{}, ErrNotFound
		}
		removed := users[i]
		return append(users[:i], users[i+1:]...), removed, nil
	})
}

func (s *JsonFileStore) Close() error { return nil }
