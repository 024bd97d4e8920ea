// Package storage provides persistent data storage for the FPL bot.
// It uses BoltDB as the underlying storage engine to store run history,
// applied gameweek plans and bootstrap snapshots for offline planning.
//
// The package provides thread-safe operations for storing and
// retrieving time-keyed records with efficient range queries and
// automatic bucket management.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/squad"

	"go.etcd.io/bbolt"
)

const (
	runsBucket      = "runs"      // Bucket name for run history records
	plansBucket     = "plans"     // Bucket name for applied gameweek plans
	snapshotsBucket = "snapshots" // Bucket name for bootstrap snapshots
)

// RunRecord is one run of the scheduled unit, as persisted to history.
type RunRecord struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Trigger    string    `json:"trigger"` // "schedule" or "manual"
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Gameweek   int       `json:"gameweek,omitempty"`
}

// Store provides persistent storage using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New creates a new storage instance with the specified data path.
// It initializes the BoltDB database and creates necessary buckets.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "fpl-bot.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{runsBucket, plansBucket, snapshotsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StoreRun appends a run record to the history, keyed by start time.
func (s *Store) StoreRun(r RunRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}

		key := fmt.Sprintf("%020d", r.StartedAt.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// RecentRuns returns up to limit run records, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < limit; k, v = c.Prev() {
			var r RunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				continue // Skip malformed records
			}
			runs = append(runs, r)
		}
		return nil
	})

	return runs, err
}

// RunsInRange returns run records whose start time falls in [start, end].
func (s *Store) RunsInRange(start, end time.Time) ([]RunRecord, error) {
	var runs []RunRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()

		startKey := []byte(fmt.Sprintf("%020d", start.UnixNano()))
		endKey := []byte(fmt.Sprintf("%020d", end.UnixNano()))

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k, endKey) <= 0; k, v = c.Next() {
			var r RunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				continue
			}
			runs = append(runs, r)
		}
		return nil
	})

	return runs, err
}

// StorePlan stores an applied plan keyed by gameweek and timestamp.
func (s *Store) StorePlan(p squad.Plan, appliedAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(plansBucket))

		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal plan: %w", err)
		}

		key := fmt.Sprintf("%03d_%020d", p.Gameweek, appliedAt.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// PlansForGameweek returns the plans applied for a given gameweek.
func (s *Store) PlansForGameweek(gw int) ([]squad.Plan, error) {
	var plans []squad.Plan

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(plansBucket)).Cursor()

		prefix := []byte(fmt.Sprintf("%03d_", gw))
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var p squad.Plan
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			plans = append(plans, p)
		}
		return nil
	})

	return plans, err
}

// StoreSnapshot persists a bootstrap snapshot for offline planning.
func (s *Store) StoreSnapshot(bs *fpl.Bootstrap, takenAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(snapshotsBucket))

		data, err := json.Marshal(bs)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}

		key := fmt.Sprintf("%020d", takenAt.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// LatestSnapshot returns the most recently stored bootstrap snapshot,
// or nil when none has been taken yet.
func (s *Store) LatestSnapshot() (*fpl.Bootstrap, error) {
	var bs *fpl.Bootstrap

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(snapshotsBucket)).Cursor()
		k, v := c.Last()
		if k == nil {
			return nil
		}
		var snapshot fpl.Bootstrap
		if err := json.Unmarshal(v, &snapshot); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		bs = &snapshot
		return nil
	})

	return bs, err
}
