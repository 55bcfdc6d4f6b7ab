package store

import (
	"slices"
	"sync"
)

// MemoryStore keeps everything in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	users []User
}

func NewMemoryStore(seed ...User) *MemoryStore {
	return &MemoryStore{users: slices.Clone(seed)}
}

func (m *MemoryStore) List() ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]User, len(m.users))
	copy(result, m.users)
	return result, nil
}

func (m *MemoryStore) Get(id int) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.users, id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	return m.users[i], nil
}

func (m *MemoryStore) Insert(f Fields) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := User{ID: nextID(m.users), Name: f.Name, Email: f.Email}
	m.users = append(m.users, u)
	return u, nil
}

func (m *MemoryStore) Replace(id int, f Fields) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.users, id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	m.users[i] = User{ID: id, Name: f.Name, Email: f.Email}
	return m.users[i], nil
}

func (m *MemoryStore) Patch(id int, p Patch) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.users, id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	m.users[i] = p.apply(m.users[i])
	return m.users[i], nil
}

func (m *MemoryStore) Delete(id int) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.users, id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	removed := m.users[i]
	m.users = slices.Delete(m.users, i, i+1)
	return removed, nil
}

func (m *MemoryStore) Close() error { return nil }
