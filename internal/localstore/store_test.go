package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestReadLocalEmpty(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	if got := s.ReadLocal(); got != "" {
		t.Errorf("ReadLocal on empty store = %q, want empty", got)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	if !s.WriteLocal("Main2") {
		t.Fatal("WriteLocal returned immediate=false")
	}
	if got := s.ReadLocal(); got != "Main2" {
		t.Errorf("ReadLocal = %q, want Main2", got)
	}

	// Overwritten on every change.
	s.WriteLocal("Main3")
	if got := s.ReadLocal(); got != "Main3" {
		t.Errorf("ReadLocal = %q, want Main3", got)
	}
}

func TestWriteLocalUnavailableStorage(t *testing.T) {
	// A file where the store expects its directory makes every write fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("creating blocker: %v", err)
	}

	s := Open(blocker, nil)
	defer s.Close()

	if s.WriteLocal("Main2") {
		t.Error("WriteLocal should report immediate=false on unavailable storage")
	}
	if got := s.ReadLocal(); got != "" {
		t.Errorf("ReadLocal after failed write = %q, want empty", got)
	}
}

func TestSubscribeReceivesWrites(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	var mu sync.Mutex
	var got []string
	unsubscribe := s.Subscribe(func(id string) {
		mu.Lock()
		got = append(got, id)
		mu.Unlock()
	})

	s.WriteLocal("Main2")

	mu.Lock()
	if len(got) != 1 || got[0] != "Main2" {
		t.Errorf("subscriber received %v, want [Main2]", got)
	}
	mu.Unlock()

	// After unsubscribe, nothing more is delivered.
	unsubscribe()
	s.WriteLocal("Main3")

	mu.Lock()
	if len(got) != 1 {
		t.Errorf("unsubscribed listener received %v", got)
	}
	mu.Unlock()
}

func TestUnsubscribeTwiceSafe(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	unsubscribe := s.Subscribe(func(string) {})
	unsubscribe()
	unsubscribe() // must not panic
}

func TestMultipleSubscribers(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	var mu sync.Mutex
	counts := map[int]int{}
	for i := 0; i < 3; i++ {
		i := i
		s.Subscribe(func(id string) {
			mu.Lock()
			counts[i]++
			mu.Unlock()
		})
	}

	s.WriteLocal("Main2")

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < 3; i++ {
		if counts[i] != 1 {
			t.Errorf("subscriber %d received %d notifications, want 1", i, counts[i])
		}
	}
}

func TestSyncRemoteFireAndForget(t *testing.T) {
	synced := make(chan string, 1)
	s := Open(t.TempDir(), func(ctx context.Context, id string) error {
		synced <- id
		return nil
	})
	defer s.Close()

	if !s.SetActiveTemplate(context.Background(), "Main2") {
		t.Fatal("SetActiveTemplate reported immediate=false")
	}

	// Local state is already visible before the sync lands.
	if got := s.ReadLocal(); got != "Main2" {
		t.Errorf("ReadLocal = %q, want Main2", got)
	}

	select {
	case id := <-synced:
		if id != "Main2" {
			t.Errorf("synced id = %q, want Main2", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remote sync was never attempted")
	}
}

func TestSyncRemoteFailureIsSwallowed(t *testing.T) {
	attempted := make(chan struct{}, 1)
	s := Open(t.TempDir(), func(ctx context.Context, id string) error {
		attempted <- struct{}{}
		return errors.New("remote down")
	})
	defer s.Close()

	// The combined path still reports local success.
	if !s.SetActiveTemplate(context.Background(), "Main2") {
		t.Fatal("SetActiveTemplate reported immediate=false")
	}

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("remote sync was never attempted")
	}

	// The override survives a failed sync.
	if got := s.ReadLocal(); got != "Main2" {
		t.Errorf("ReadLocal = %q, want Main2", got)
	}
}

func TestCrossProcessNotification(t *testing.T) {
	dir := t.TempDir()
	reader := Open(dir, nil)
	defer reader.Close()

	got := make(chan string, 1)
	reader.Subscribe(func(id string) { got <- id })

	// A second store sharing the directory stands in for another process.
	writer := Open(dir, nil)
	defer writer.Close()
	writer.WriteLocal("Main2")

	select {
	case id := <-got:
		if id != "Main2" {
			t.Errorf("notified id = %q, want Main2", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("cross-process notification never arrived")
	}
}

func TestClear(t *testing.T) {
	s := Open(t.TempDir(), nil)
	defer s.Close()

	s.WriteLocal("Main2")
	s.Clear()
	if got := s.ReadLocal(); got != "" {
		t.Errorf("ReadLocal after Clear = %q, want empty", got)
	}

	// Clearing an already-empty store is fine.
	s.Clear()
}
