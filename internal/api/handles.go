package api

import (
	"context"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/full"
	"github.com/samcharles93/ansysio/pkg/rst"
)

// DefaultCacheSize bounds the handle cache when no size is configured.
const DefaultCacheSize = 16

// HandleCache keeps recently opened files. Entries are keyed by path and
// modification time, so a rewritten file is reopened. Handles are
// immutable once opened and are shared between requests.
type HandleCache struct {
	log   logger.Logger
	cache *lru.Cache[handleKey, any]
	// one load per key at a time
	mu      sync.Mutex
	loading map[handleKey]*sync.Mutex
}

type handleKey struct {
	kind  string
	path  string
	mtime int64
	size  int64
}

func NewHandleCache(size int, log logger.Logger) (*HandleCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = logger.Discard()
	}
	h := &HandleCache{log: log, loading: make(map[handleKey]*sync.Mutex)}
	c, err := lru.NewWithEvict(size, func(k handleKey, _ any) {
		h.log.Debug("evicted file handle", "path", k.path, "kind", k.kind)
	})
	if err != nil {
		return nil, err
	}
	h.cache = c
	return h, nil
}

func (h *HandleCache) Len() int { return h.cache.Len() }

func (h *HandleCache) Result(path string) (*rst.ResultFile, error) {
	v, err := h.getOrLoad("result", path, func() (any, error) {
		return rst.Open(path, rst.Options{Logger: h.log})
	})
	if err != nil {
		return nil, err
	}
	return v.(*rst.ResultFile), nil
}

func (h *HandleCache) Full(path string) (*full.FullFile, error) {
	v, err := h.getOrLoad("full", path, func() (any, error) {
		return full.Open(path, full.Options{Logger: h.log})
	})
	if err != nil {
		return nil, err
	}
	return v.(*full.FullFile), nil
}

// Archive decodes the archive once; the decoded tables are cached, not a
// file handle. ctx bounds the decode of a cache miss.
func (h *HandleCache) Archive(ctx context.Context, path string) (*archive.Archive, error) {
	v, err := h.getOrLoad("archive", path, func() (any, error) {
		return archive.Read(ctx, path, archive.Options{Logger: h.log})
	})
	if err != nil {
		return nil, err
	}
	return v.(*archive.Archive), nil
}

func (h *HandleCache) getOrLoad(kind, path string, load func() (any, error)) (any, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := handleKey{kind: kind, path: path, mtime: st.ModTime().UnixNano(), size: st.Size()}
	if v, ok := h.cache.Get(key); ok {
		return v, nil
	}

	h.mu.Lock()
	lk, ok := h.loading[key]
	if !ok {
		lk = &sync.Mutex{}
		h.loading[key] = lk
	}
	h.mu.Unlock()

	lk.Lock()
	defer func() {
		lk.Unlock()
		h.mu.Lock()
		delete(h.loading, key)
		h.mu.Unlock()
	}()
	if v, ok := h.cache.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	h.cache.Add(key, v)
	h.log.Debug("opened file handle", "path", path, "kind", kind)
	return v, nil
}
