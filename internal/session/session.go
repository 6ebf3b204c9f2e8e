// Package session persists per-file editor state (caret offset, scroll
// offset) across runs in a small JSON file. A missing or unreadable file
// yields an empty store; saving is best-effort and explicit.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Store holds the session state keyed by absolute file path. The zero
// value is not usable; construct with Open.
type Store struct {
	mu   sync.Mutex
	path string
	raw  string
}

// Open reads the session file at path. Missing or malformed content
// silently produces an empty store.
func Open(path string) *Store {
	s := &Store{path: path, raw: "{}"}
	data, err := os.ReadFile(path)
	if err == nil && gjson.ValidBytes(data) {
		s.raw = string(data)
	}
	return s
}

// escape neutralizes the path-syntax characters of the query language so
// arbitrary file paths can be used as object keys.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CaretFor returns the recorded caret offset for a file.
func (s *Store) CaretFor(file string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := gjson.Get(s.raw, "files."+escape(file)+".caret")
	if !res.Exists() {
		return 0, false
	}
	return int(res.Int()), true
}

// ScrollFor returns the recorded scroll offset for a file.
func (s *Store) ScrollFor(file string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := gjson.Get(s.raw, "files."+escape(file)+".scroll")
	if !res.Exists() {
		return 0, false
	}
	return int(res.Int()), true
}

// Record stores the caret and scroll offsets for a file, replacing any
// previous entry.
func (s *Store) Record(file string, caret, scroll int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "files." + escape(file)
	raw, err := sjson.Set(s.raw, key+".caret", caret)
	if err != nil {
		return
	}
	raw, err = sjson.Set(raw, key+".scroll", scroll)
	if err != nil {
		return
	}
	s.raw = raw
}

// Forget drops the entry for a file, if present.
func (s *Store) Forget(file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.Delete(s.raw, "files."+escape(file))
	if err != nil {
		return
	}
	s.raw = raw
}

// Save writes the store back to its file, creating parent directories as
// needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(s.raw), 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
