package session

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

const fileBucket = "auth"

// FileStore persists the session record in a BBolt database on disk. It is
// the default backend for a client process: durable across restarts, scoped
// to the local profile, no server required.
type FileStore struct {
	db  *bbolt.DB
	key []byte
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or creates) the BBolt database at path and stores the
// session under key. An empty key falls back to [DefaultKey].
func NewFileStore(path, key string) (*FileStore, error) {
	if key == "" {
		key = DefaultKey
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening session db: %v", ErrStoreUnavailable, err)
	}

	return &FileStore{db: db, key: []byte(key)}, nil
}

// NewFileStoreFromDB wraps an already-open BBolt database.
func NewFileStoreFromDB(db *bbolt.DB, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{db: db, key: []byte(key)}
}

// Close closes the underlying database.
func (f *FileStore) Close() error {
	return f.db.Close()
}

// Save writes the record, fully replacing any prior session.
func (f *FileStore) Save(_ context.Context, s *Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	err = f.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(fileBucket))
		if err != nil {
			return err
		}
		return b.Put(f.key, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Read returns the stored record, ErrAbsent when unset, ErrMalformed when
// the stored bytes do not parse.
func (f *FileStore) Read(_ context.Context) (*Session, error) {
	var data []byte
	err := f.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(fileBucket))
		if b == nil {
			return nil
		}
		if v := b.Get(f.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if data == nil {
		return nil, ErrAbsent
	}
	return Decode(data)
}

// Clear removes the record. Idempotent: clearing an empty store succeeds.
func (f *FileStore) Clear(_ context.Context) error {
	err := f.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(fileBucket))
		if b == nil {
			return nil
		}
		return b.Delete(f.key)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SetRaw writes arbitrary bytes under the session key, bypassing validation.
// Tests use it to stage malformed records.
func (f *FileStore) SetRaw(data []byte) error {
	return f.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(fileBucket))
		if err != nil {
			return err
		}
		return b.Put(f.key, data)
	})
}
