package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// Store persists session frames in a bbolt database keyed by session ID.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Ownership: the store owns the database handle; Close releases it.
//   - Errors: missing sessions return ErrSessionNotFound; use after Close
//     returns ErrStoreClosed.
type Store struct {
	mu     sync.Mutex
	db     *bolt.DB
	closed bool
}

// OpenStore opens or creates the session database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes the frames for a session, replacing any previous state.
func (s *Store) Save(sessionID string, frames []Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if sessionID == "" {
		return fmt.Errorf("session ID must not be empty")
	}

	data, err := json.Marshal(frames)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), data)
	})
}

// Load reads the frames for a session.
func (s *Store) Load(sessionID string) ([]Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var frames []Frame
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return json.Unmarshal(data, &frames)
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}

// Sessions lists stored session IDs in key order.
func (s *Store) Sessions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
