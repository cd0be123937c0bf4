// Package journal persists an append-only record of claim attempts in a
// local BoltDB file. The journal is an audit trail, not a source of truth:
// the listing repository alone decides claim outcomes.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/foodbridge/backend/usecase"
)

const bucketName = "claim_attempts"

// Store wraps BoltDB to persist claim attempt records.
type Store struct {
	db        *bolt.DB
	bucket    []byte
	retention int
	seq       atomic.Uint64
}

// Open initializes the BoltDB file and ensures the bucket exists. Retention
// bounds the number of kept records; older entries are pruned as new ones
// arrive.
func Open(path string, retention int) (*Store, error) {
	if retention <= 0 {
		retention = 10_000
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		bucket:    []byte(bucketName),
		retention: retention,
	}, nil
}

// Append stores a claim record under a monotonic time-ordered key.
func (s *Store) Append(record usecase.ClaimRecord) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if record.At.IsZero() {
		record.At = time.Now()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := s.buildKey(record.At)

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if err := b.Put(key, payload); err != nil {
			return err
		}
		return prune(b, s.retention)
	})
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]usecase.ClaimRecord, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []usecase.ClaimRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var record usecase.ClaimRecord
			if err := json.Unmarshal(v, &record); err != nil {
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// Size returns the number of journaled records.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// buildKey produces a 16-byte key ordered by timestamp, with a process-local
// sequence number to keep same-nanosecond appends distinct.
func (s *Store) buildKey(at time.Time) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], s.seq.Add(1))
	return key
}

func prune(b *bolt.Bucket, retention int) error {
	excess := b.Stats().KeyN + 1 - retention
	if excess <= 0 {
		return nil
	}
	c := b.Cursor()
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.First() {
		if err := b.Delete(k); err != nil {
			return err
		}
		excess--
	}
	return nil
}
