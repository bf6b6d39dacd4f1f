package vector

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
)

// Index is a flat in-memory nearest-neighbor structure over fixed-dimension
// vectors, searched by Euclidean distance. The membership set makes
// "already indexed" checks O(1) without scanning keys. All mutation goes
// through the internal mutex; add/search are safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	dim     int
	keys    []string
	vectors [][]float32
	members map[string]struct{}
}

func NewIndex(dim int) *Index {
	return &Index{
		dim:     dim,
		members: make(map[string]struct{}),
	}
}

// Add appends vectors under their keys. Keys already present are rejected:
// each article identifier appears at most once in the index.
func (ix *Index) Add(vectors [][]float32, keys []string) error {
	if len(vectors) != len(keys) {
		return fmt.Errorf("vector count %d does not match key count %d", len(vectors), len(keys))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	for i, vec := range vectors {
		if len(vec) != ix.dim {
			return fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(vec), ix.dim)
		}
		if _, ok := ix.members[keys[i]]; ok {
			return fmt.Errorf("key %s already indexed", keys[i])
		}
	}

	for i, vec := range vectors {
		ix.keys = append(ix.keys, keys[i])
		ix.vectors = append(ix.vectors, vec)
		ix.members[keys[i]] = struct{}{}
	}

	return nil
}

// Contains reports whether a key is already in the index.
func (ix *Index) Contains(key string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.members[key]
	return ok
}

func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.keys)
}

// Search returns the k nearest keys to the query vector with their Euclidean
// distances, nearest first. A k larger than the index returns all entries.
func (ix *Index) Search(query []float32, k int) ([]string, []float32, error) {
	if len(query) != ix.dim {
		return nil, nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("k must be positive, got %d", k)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type hit struct {
		key  string
		dist float32
	}

	hits := make([]hit, len(ix.vectors))
	for i, vec := range ix.vectors {
		hits[i] = hit{key: ix.keys[i], dist: euclidean(query, vec)}
	}

	sort.Slice(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	if k > len(hits) {
		k = len(hits)
	}

	keys := make([]string, k)
	dists := make([]float32, k)
	for i := 0; i < k; i++ {
		keys[i] = hits[i].key
		dists[i] = hits[i].dist
	}

	return keys, dists, nil
}

func euclidean(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

type snapshot struct {
	Dim     int
	Keys    []string
	Vectors [][]float32
}

// Save writes a snapshot of the index to disk.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	snap := snapshot{Dim: ix.dim, Keys: ix.keys, Vectors: ix.vectors}
	ix.mu.RUnlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	return os.Rename(tmp, path)
}

// LoadIndex restores an index from a snapshot. A missing file yields a fresh
// empty index with the expected dimension.
func LoadIndex(path string, dim int) (*Index, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewIndex(dim), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if snap.Dim != dim {
		return nil, fmt.Errorf("snapshot dimension %d does not match configured dimension %d", snap.Dim, dim)
	}

	ix := NewIndex(snap.Dim)
	ix.keys = snap.Keys
	ix.vectors = snap.Vectors
	for _, key := range snap.Keys {
		ix.members[key] = struct{}{}
	}

	return ix, nil
}
