package storage

import (
	"context"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/skillbank-client/pkg/apiclient"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(t.TempDir()+"/journal.db", opts.withDefaults())
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRecordsNewestFirst(t *testing.T) {
	store := openTestStore(t, Options{TTL: time.Hour})
	base := time.Now().Add(-time.Minute)

	for i, ep := range []string{"/a", "/b", "/c"} {
		err := store.Record(context.Background(), apiclient.Invocation{
			Endpoint:  ep,
			Method:    "GET",
			Succeeded: i != 1,
			StartedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record %s: %v", ep, err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(got))
	}
	if got[0].Endpoint != "/c" || got[1].Endpoint != "/b" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[1].Succeeded {
		t.Fatalf("expected /b to be recorded as failed")
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("expected distinct ids, got %q and %q", got[0].ID, got[1].ID)
	}
}

func TestBoltStoreExpiresRows(t *testing.T) {
	store := openTestStore(t, Options{TTL: time.Second, CleanupInterval: time.Second})

	if err := store.Record(context.Background(), apiclient.Invocation{Endpoint: "/old"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := store.Recent(10)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 fresh row, got %d err=%v", len(got), err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	got, err = store.Recent(10)
	if err != nil {
		t.Fatalf("Recent after expiry: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired row hidden, got %+v", got)
	}

	if err := store.Record(context.Background(), apiclient.Invocation{Endpoint: "/new"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	var rows int
	_ = store.db.View(func(tx *bolt.Tx) error {
		rows = tx.Bucket([]byte(invocationBucket)).Stats().KeyN
		return nil
	})
	if rows != 1 {
		t.Fatalf("expected cleanup to leave only the new row, got %d", rows)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Record(context.Background(), apiclient.Invocation{}); err != nil {
		t.Fatalf("noop store Record: %v", err)
	}
	if got, _ := store.Recent(5); len(got) != 0 {
		t.Fatalf("noop store returned rows")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
