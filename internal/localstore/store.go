// Package localstore is the per-profile cache of the active template id.
// It plays the role browser localStorage plays for the rendered pages: a
// durable single value that wins over the server's choice after load,
// plus a change notification that reaches every other live context of
// the same installation without polling.
package localstore

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/natefinch/atomic"
)

// overrideFile is the fixed key under which the override id is stored.
const overrideFile = "active_template"

// RemoteSync persists a template selection to the remote config store.
// It is invoked in the background; the caller never waits on it.
type RemoteSync func(ctx context.Context, id string) error

// Store is the durable local cache of the active template id.
type Store struct {
	path string
	sync RemoteSync

	mu        sync.Mutex
	subs      map[int]func(id string)
	nextSubID int
	lastSeen  string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open creates a Store rooted at dir. Storage failures are not fatal:
// a store whose directory cannot be created still works, it just never
// has an override. syncFn may be nil.
func Open(dir string, syncFn RemoteSync) *Store {
	s := &Store{
		path: filepath.Join(dir, overrideFile),
		sync: syncFn,
		subs: make(map[int]func(string)),
		done: make(chan struct{}),
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("localstore: storage unavailable: %v", err)
		return s
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("localstore: watcher unavailable, cross-process sync disabled: %v", err)
		return s
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("localstore: watching %s: %v", dir, err)
		watcher.Close()
		return s
	}

	s.watcher = watcher
	go s.watch()
	return s
}

// ReadLocal returns the cached override id, or "" when storage is
// unavailable or empty. It never fails.
func (s *Store) ReadLocal() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("localstore: read failed: %v", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteLocal persists id and reports whether the write succeeded. On
// success every subscriber in this process is notified synchronously;
// other live processes observe the file change through their watchers.
func (s *Store) WriteLocal(id string) (immediate bool) {
	if err := atomic.WriteFile(s.path, bytes.NewReader([]byte(id))); err != nil {
		log.Printf("localstore: write failed: %v", err)
		return false
	}

	s.mu.Lock()
	s.lastSeen = id
	s.mu.Unlock()

	s.notify(id)
	return true
}

// SyncRemote pushes id to the remote config store in the background.
// Failures are logged, never surfaced: the local write already gave the
// user feedback.
func (s *Store) SyncRemote(ctx context.Context, id string) {
	if s.sync == nil {
		return
	}
	go func() {
		if err := s.sync(ctx, id); err != nil {
			log.Printf("localstore: background remote sync failed: %v", err)
		}
	}()
}

// SetActiveTemplate is the combined update path: immediate local write,
// then best-effort background remote sync. The remote store converges
// with local state within one round trip.
func (s *Store) SetActiveTemplate(ctx context.Context, id string) (immediate bool) {
	immediate = s.WriteLocal(id)
	s.SyncRemote(ctx, id)
	return immediate
}

// Subscribe registers a listener for template-change notifications and
// returns its deregistration func. Unsubscribing more than once is safe.
func (s *Store) Subscribe(fn func(id string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Clear removes the stored override. Useful for tests and debugging.
func (s *Store) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("localstore: clear failed: %v", err)
	}
}

// Close stops the cross-process watcher.
func (s *Store) Close() {
	close(s.done)
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Store) notify(id string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// watch relays override changes made by other processes to this
// process's subscribers. The lastSeen guard drops the echo of our own
// writes.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}

			id := s.ReadLocal()
			if id == "" {
				continue
			}

			s.mu.Lock()
			changed := id != s.lastSeen
			s.lastSeen = id
			s.mu.Unlock()

			if changed {
				s.notify(id)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("localstore: watcher: %v", err)
		}
	}
}
