// Package idempotency replays stored responses for requests that carry an
// Idempotency-Key header, backed by an embedded bolt database.
package idempotency

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/boltdb/bolt"
)

const bucketName = "responses"

// ErrNotFound is returned when no response is stored for a key
var ErrNotFound = errors.New("idempotency record not found")

// Record is a stored response
type Record struct {
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store keeps responses keyed by user and Idempotency-Key
type Store struct {
	db  *bolt.DB
	ttl time.Duration
}

// Open opens or creates the database at path. Records older than ttl are
// ignored on read and removed by Purge.
func Open(path string, ttl time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Close releases the database file lock
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the live record stored under key
func (s *Store) Get(key string) (*Record, error) {
	var rec Record

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	if s.expired(&rec, time.Now()) {
		return nil, ErrNotFound
	}

	return &rec, nil
}

// Save stores rec under key unless a live record already exists, in which
// case the existing record is returned and created is false.
func (s *Store) Save(key string, rec *Record) (stored *Record, created bool, err error) {
	var result Record

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		if existing := b.Get([]byte(key)); existing != nil {
			if err := json.Unmarshal(existing, &result); err != nil {
				return err
			}
			if !s.expired(&result, time.Now()) {
				return nil
			}
		}

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		result = *rec
		created = true
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return nil, false, err
	}

	return &result, created, nil
}

// Purge deletes expired records and returns how many were removed
func (s *Store) Purge() (int, error) {
	removed := 0
	now := time.Now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil || s.expired(&rec, now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})

	return removed, err
}

func (s *Store) expired(rec *Record, now time.Time) bool {
	return s.ttl > 0 && now.Sub(rec.CreatedAt) > s.ttl
}
