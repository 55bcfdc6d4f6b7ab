package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// SqliteStore keeps users in a single SQLite table.
//
// Tables:
//
//	users(id, name, email)  PRIMARY KEY (id)
//
// Ids are assigned explicitly as MAX(id)+1 so every backend numbers
// records the same way.
type SqliteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (s *SqliteStore) inTx(fn func(tx *sql.Tx) (User, error)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return User{}, err
	}
	u, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return User{}, err
	}
	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SqliteStore) List() ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query("SELECT id, name, email FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *SqliteStore) Get(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanUser(s.db.QueryRow("SELECT id, name, email FROM users WHERE id = ?", id))
}

func (s *SqliteStore) Insert(f Fields) (User, error) {
	return s.inTx(func(tx *sql.Tx) (User, error) {
		u := User{Name: f.Name, Email: f.Email}
		if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM users").Scan(&u.ID); err != nil {
			return User{}, err
		}
		if _, err := tx.Exec(
			"INSERT INTO users (id, name, email) VALUES (?, ?, ?)",
			u.ID, u.Name, u.Email,
		); err != nil {
			return User{}, err
		}
		return u, nil
	})
}

func (s *SqliteStore) Replace(id int, f Fields) (User, error) {
	return s.inTx(func(tx *sql.Tx) (User, error) {
		res, err := tx.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", f.Name, f.Email, id)
		if err != nil {
			return User{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return User{}, ErrNotFound
		}
		return User{ID: id, Name: f.Name, Email: f.Email}, nil
	})
}

func (s *SqliteStore) Patch(id int, p Patch) (User, error) {
	return s.inTx(func(tx *sql.Tx) (User, error) {
		current, err := scanUser(tx.QueryRow("SELECT id, name, email FROM users WHERE id = ?", id))
		if err != nil {
			return User{}, err
		}
		u := p.apply(current)
		if _, err := tx.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", u.Name, u.Email, id); err != nil {
			return User{}, err
		}
		return u, nil
	})
}

func (s *SqliteStore) Delete(id int) (User, error) {
	return s.inTx(func(tx *sql.Tx) (User, error) {
		removed, err := scanUser(tx.QueryRow("SELECT id, name, email FROM users WHERE id = ?", id))
		if err != nil {
			return User{}, err
		}
		if _, err := tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
			return User{}, err
		}
		return removed, nil
	})
}
