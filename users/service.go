package users

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stevemurr/simple-user-server/store"
)

// Op is the kind of mutating request run through the pipeline.
type Op int

const (
	OpCreate Op = iota
	OpReplace
	OpPatch
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpReplace:
		return "replace"
	case OpPatch:
		return "patch"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Request is a mutating request as it arrives from the transport: a raw
// path id (empty for create) and a raw JSON body (empty for delete).
type Request struct {
	Op   Op
	ID   string
	Body []byte
}

// Service runs user requests against a Store.
//
// Mutations are serialized by the service so that the email uniqueness
// check and the write that follows it see the same collection.
type Service struct {
	store store.Store
	mu    sync.Mutex
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns all users in id order.
func (s *Service) List() ([]store.User, error) {
	all, err := s.store.List()
	if err != nil {
		return nil, storeError(err)
	}
	return all, nil
}

// Get returns the user with the given raw path id.
func (s *Service) Get(rawID string) (store.User, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return store.User{}, err
	}
	u, err := s.store.Get(id)
	if err != nil {
		return store.User{}, storeError(err)
	}
	return u, nil
}

func (s *Service) Create(body []byte) (store.User, error) {
	return s.Do(Request{Op: OpCreate, Body: body})
}

func (s *Service) Replace(rawID string, body []byte) (store.User, error) {
	return s.Do(Request{Op: OpReplace, ID: rawID, Body: body})
}

func (s *Service) Patch(rawID string, body []byte) (store.User, error) {
	return s.Do(Request{Op: OpPatch, ID: rawID, Body: body})
}

func (s *Service) Delete(rawID string) (store.User, error) {
	return s.Do(Request{Op: OpDelete, ID: rawID})
}

// Do runs req through validate → normalize → uniqueness → store and
// stops at the first failure. Every returned error is an *Error.
func (s *Service) Do(req Request) (store.User, error) {
	var id int
	if req.Op != OpCreate {
		var err error
		if id, err = ParseID(req.ID); err != nil {
			return store.User{}, err
		}
	}

	var in Body
	if req.Op != OpDelete {
		var err error
		if in, err = DecodeBody(req.Body); err != nil {
			return store.User{}, err
		}
		if req.Op == OpPatch {
			err = ValidatePatch(in)
		} else {
			err = ValidateFull(in)
		}
		if err != nil {
			return store.User{}, err
		}
		in = Normalize(in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if email := in.email(); email != "" {
		all, err := s.store.List()
		if err != nil {
			return store.User{}, storeError(err)
		}
		if err := CheckUniqueEmail(all, email, id); err != nil {
			return store.User{}, err
		}
	}

	var (
		u   store.User
		err error
	)
	switch req.Op {
	case OpCreate:
		u, err = s.store.Insert(store.Fields{Name: in.name(), Email: in.email()})
	case OpReplace:
		u, err = s.store.Replace(id, store.Fields{Name: in.name(), Email: in.email()})
	case OpPatch:
		u, err = s.store.Patch(id, store.Patch{Name: in.Name, Email: in.Email})
	case OpDelete:
		u, err = s.store.Delete(id)
	default:
		return store.User{}, wrap(ErrStorageFailure, fmt.Errorf("unknown operation %d", int(req.Op)))
	}
	if err != nil {
		return store.User{}, storeError(err)
	}
	return u, nil
}

// storeError maps a store error onto the users error taxonomy.
func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return wrap(ErrStorageFailure, err)
}
