package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

const invocationBucket = "invocations"

// journalRow is the persisted form of an invocation.
type journalRow struct {
	Invocation apiclient.Invocation `json:"invocation"`
	ExpiresAt  int64                `json:"expires_at"`
}

// boltStore implements a Store backed by BoltDB. Keys are ULIDs so a
// cursor walks the journal in time order.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	entropyMu       sync.Mutex
	entropy         *ulid.MonotonicEntropy
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(invocationBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		entropy:         ulid.Monotonic(rand.Reader, 0),
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends an invocation to the journal, assigning it an ID.
func (b *boltStore) Record(_ context.Context, inv apiclient.Invocation) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	at := inv.StartedAt
	if at.IsZero() {
		at = now
	}
	id, err := b.newID(at)
	if err != nil {
		return fmt.Errorf("generate journal id: %w", err)
	}
	inv.ID = id.String()

	raw, err := sonic.ConfigStd.Marshal(journalRow{Invocation: inv, ExpiresAt: now.Add(b.ttl).Unix()})
	if err != nil {
		return fmt.Errorf("encode journal row: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucket))
		if bucket == nil {
			return fmt.Errorf("invocation bucket missing")
		}
		return bucket.Put(id[:], raw)
	})
}

// Recent returns up to limit unexpired invocations, newest first.
func (b *boltStore) Recent(limit int) ([]apiclient.Invocation, error) {
	if b == nil || b.db == nil || limit <= 0 {
		return nil, nil
	}

	now := time.Now()
	out := make([]apiclient.Invocation, 0, limit)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucket))
		if bucket == nil {
			return fmt.Errorf("invocation bucket missing")
		}
		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil && len(out) < limit; k, v = cursor.Prev() {
			row, ok := decodeRow(v)
			if !ok || row.ExpiresAt <= now.Unix() {
				continue
			}
			out = append(out, row.Invocation)
		}
		return nil
	})
	return out, err
}

func (b *boltStore) newID(at time.Time) (ulid.ULID, error) {
	b.entropyMu.Lock()
	defer b.entropyMu.Unlock()
	return ulid.New(ulid.Timestamp(at), b.entropy)
}

// maybeCleanupExpired removes expired rows on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucket))
		if bucket == nil {
			return fmt.Errorf("invocation bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			row, ok := decodeRow(v)
			if !ok || row.ExpiresAt <= now.Unix() {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeRow(value []byte) (journalRow, bool) {
	var row journalRow
	if err := sonic.ConfigStd.Unmarshal(value, &row); err != nil {
		return journalRow{}, false
	}
	return row, row.ExpiresAt > 0
}
