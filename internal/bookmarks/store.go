// Package bookmarks keeps the ordered per-document bookmark collection and
// mirrors every change into a single storage slot.
package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/storage"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

// Scope selects how the storage slot is derived
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeGlobal   Scope = "global"

	globalKey = "pdf-bookmarks"
)

// ErrDuplicate is returned by Add when the page is already bookmarked
var ErrDuplicate = errors.New("page is already bookmarked")

// Key returns the storage slot for a document under the given scope
func Key(scope Scope, documentID string) string {
	if scope == ScopeGlobal || documentID == "" {
		return globalKey
	}
	return globalKey + ":" + documentID
}

// record is the persisted shape of a bookmark
type record struct {
	Page      int    `json:"page"`
	Label     string `json:"label"`
	Timestamp int64  `json:"timestamp"`
}

// Store owns the in-memory bookmark list and is the only writer of its slot
type Store struct {
	kv  storage.KV
	key string
	log *zap.Logger
	now func() time.Time

	entries []models.Bookmark
}

// NewStore creates an empty store bound to the slot key. Call Load to read
// what was persisted.
func NewStore(kv storage.KV, key string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:  kv,
		key: key,
		log: log.Named("bookmarks"),
		now: time.Now,
	}
}

// Key returns the storage slot this store writes to
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one. Absent or
// unreadable data results in an empty collection.
func (s *Store) Load() {
	s.entries = nil

	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("Unable to read bookmarks, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}
	if !ok || len(data) == 0 {
		return
	}

	var records []record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		s.log.Warn("Malformed bookmarks, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}

	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if r.Page < 1 || seen[r.Page] {
			continue
		}
		seen[r.Page] = true
		label := r.Label
		if label == "" {
			label = models.PageLabel(r.Page)
		}
		s.entries = append(s.entries, models.Bookmark{
			Page:      r.Page,
			Label:     label,
			CreatedAt: time.UnixMilli(r.Timestamp),
		})
	}
	s.sort()
	s.log.Debug("Bookmarks loaded", zap.String("key", s.key), zap.Int("count", len(s.entries)))
}

// List returns the bookmarks ascending by page
func (s *Store) List() []models.Bookmark {
	out := make([]models.Bookmark, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of bookmarks
func (s *Store) Len() int {
	return len(s.entries)
}

// Has reports whether page is bookmarked
func (s *Store) Has(page int) bool {
	_, found := s.find(page)
	return found
}

// Add bookmarks page and persists the collection
func (s *Store) Add(page int) (models.Bookmark, error) {
	if _, found := s.find(page); found {
		return models.Bookmark{}, fmt.Errorf("page %d: %w", page, ErrDuplicate)
	}

	b := models.Bookmark{
		Page:      page,
		Label:     models.PageLabel(page),
		CreatedAt: s.now(),
	}
	s.entries = append(s.entries, b)
	s.sort()
	s.persist()
	return b, nil
}

// Remove deletes the bookmark for page. Removing an absent page does nothing.
func (s *Store) Remove(page int) {
	i, found := s.find(page)
	if !found {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.persist()
}

func (s *Store) find(page int) (int, bool) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Page >= page
	})
	return i, i < len(s.entries) && s.entries[i].Page == page
}

func (s *Store) sort() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Page < s.entries[j].Page
	})
}

// persist writes the whole collection. Failures are logged only, memory
// stays as mutated.
func (s *Store) persist() {
	records := make([]record, len(s.entries))
	for i, b := range s.entries {
		records[i] = record{Page: b.Page, Label: b.Label, Timestamp: b.CreatedAt.UnixMilli()}
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.log.Error("Unable to encode bookmarks", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.log.Error("Unable to persist bookmarks", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.log.Debug("Bookmarks persisted", zap.String("key", s.key), zap.Int("count", len(records)))
}
