package matstore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samcharles93/matkit/pkg/matfile"
)

// Entry is one cached container: the decoded file plus the identity
// callers use for conditional requests.
type Entry struct {
	File    *matfile.File
	ETag    string
	Path    string
	Size    int64
	ModTime time.Time
	Loaded  time.Time
}

// Store is a bounded cache of decoded MAT-files keyed by cleaned
// absolute path. Evicted containers are closed; cached entries are
// revalidated against the file on disk and reloaded when it changed.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Entry]
}

// New returns a store holding at most capacity decoded containers.
func New(capacity int) (*Store, error) {
	cache, err := lru.NewWithEvict(capacity, func(_ string, e *Entry) {
		_ = e.File.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// Get returns the cached entry for path, decoding the file on a miss.
// A hit whose size or modification time no longer matches the file is
// discarded and reloaded under a fresh ETag.
func (s *Store) Get(path string) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if e, ok := s.cache.Get(abs); ok && fresh(e, st) {
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	f, err := matfile.Open(abs)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		File:    f,
		ETag:    uuid.NewString(),
		Path:    abs,
		Size:    st.Size(),
		ModTime: st.ModTime(),
		Loaded:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.cache.Get(abs); ok {
		if fresh(cur, st) {
			_ = f.Close()
			return cur, nil
		}
		s.cache.Remove(abs)
	}
	s.cache.Add(abs, e)
	return e, nil
}

// Len returns the number of cached containers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Purge closes and drops every cached container.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}

func fresh(e *Entry, st os.FileInfo) bool {
	return e.Size == st.Size() && e.ModTime.Equal(st.ModTime())
}
