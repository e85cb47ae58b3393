package bookmarks

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justyntemme/webby-pdf/internal/storage"
)

// failingKV accepts reads but rejects every write
type failingKV struct {
	*storage.Memory
	writes int
}

func (f *failingKV) Set(key, value string) error {
	f.writes++
	return errors.New("disk full")
}

// countingKV counts writes
type countingKV struct {
	*storage.Memory
	writes int
}

func (c *countingKV) Set(key, value string) error {
	c.writes++
	return c.Memory.Set(key, value)
}

func pages(s *Store) []int {
	var out []int
	for _, b := range s.List() {
		out = append(out, b.Page)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKey(t *testing.T) {
	tests := []struct {
		scope Scope
		id    string
		want  string
	}{
		{ScopeDocument, "abc", "pdf-bookmarks:abc"},
		{ScopeGlobal, "abc", "pdf-bookmarks"},
		{ScopeDocument, "", "pdf-bookmarks"},
	}
	for _, tt := range tests {
		if got := Key(tt.scope, tt.id); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.scope, tt.id, got, tt.want)
		}
	}
}

func TestAddKeepsOrder(t *testing.T) {
	s := NewStore(storage.NewMemory(), "k", nil)

	for _, p := range []int{5, 2, 9} {
		if _, err := s.Add(p); err != nil {
			t.Fatalf("Add(%d) error = %v", p, err)
		}
	}

	if got := pages(s); !equalInts(got, []int{2, 5, 9}) {
		t.Errorf("List() pages = %v, want [2 5 9]", got)
	}
	if got := s.List()[0].Label; got != "Page 2" {
		t.Errorf("label = %q, want %q", got, "Page 2")
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	kv := &countingKV{Memory: storage.NewMemory()}
	s := NewStore(kv, "k", nil)

	if _, err := s.Add(5); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	_, err := s.Add(5)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Add() error = %v, want ErrDuplicate", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if kv.writes != 1 {
		t.Errorf("writes = %d, rejected add must not persist", kv.writes)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	kv := &countingKV{Memory: storage.NewMemory()}
	s := NewStore(kv, "k", nil)
	s.Add(5)
	s.Add(7)

	s.Remove(5)
	s.Remove(5)

	if got := pages(s); !equalInts(got, []int{7}) {
		t.Errorf("List() pages = %v, want [7]", got)
	}
	if kv.writes != 3 {
		t.Errorf("writes = %d, want 3 (two adds, one effective remove)", kv.writes)
	}
}

func TestPersistedFormat(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv, "pdf-bookmarks", nil)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }

	s.Add(4)
	s.Add(1)

	data, ok, _ := kv.Get("pdf-bookmarks")
	if !ok {
		t.Fatal("nothing persisted")
	}

	var got []map[string]any
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatalf("persisted data is not JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("persisted %d records, want 2", len(got))
	}
	if got[0]["page"] != float64(1) || got[1]["page"] != float64(4) {
		t.Errorf("persisted order = %v", got)
	}
	if got[0]["label"] != "Page 1" {
		t.Errorf("label = %v", got[0]["label"])
	}
	if got[0]["timestamp"] != float64(created.UnixMilli()) {
		t.Errorf("timestamp = %v, want %d", got[0]["timestamp"], created.UnixMilli())
	}
}

func TestLoadRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	first := NewStore(kv, "k", nil)
	first.Add(3)
	first.Add(1)

	second := NewStore(kv, "k", nil)
	second.Load()
	if got := pages(second); !equalInts(got, []int{1, 3}) {
		t.Errorf("loaded pages = %v, want [1 3]", got)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []int
	}{
		{"not json", "not json", nil},
		{"object instead of array", `{"page":1}`, nil},
		{"empty", "", nil},
		{"unsorted with duplicates", `[{"page":9,"label":"x","timestamp":1},{"page":2},{"page":9},{"page":0}]`, []int{2, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			kv.Set("k", tt.data)

			core, logs := observer.New(zapcore.DebugLevel)
			s := NewStore(kv, "k", zap.New(core))
			s.Load()

			if got := pages(s); !equalInts(got, tt.want) {
				t.Errorf("pages = %v, want %v", got, tt.want)
			}
			if tt.name == "not json" && logs.FilterMessage("Malformed bookmarks, starting empty").Len() != 1 {
				t.Error("malformed data was not logged")
			}
		})
	}
}

func TestLoadFillsMissingLabel(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set("k", `[{"page":6,"timestamp":0}]`)

	s := NewStore(kv, "k", nil)
	s.Load()

	if got := s.List(); len(got) != 1 || got[0].Label != "Page 6" {
		t.Errorf("List() = %+v", got)
	}
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	kv := &failingKV{Memory: storage.NewMemory()}
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewStore(kv, "k", zap.New(core))

	if _, err := s.Add(2); err != nil {
		t.Fatalf("Add() error = %v, write failures must not surface", err)
	}
	if !s.Has(2) {
		t.Error("in-memory add reverted after write failure")
	}
	if logs.FilterMessage("Unable to persist bookmarks").Len() != 1 {
		t.Error("write failure was not logged")
	}

	s.Remove(2)
	if s.Has(2) {
		t.Error("in-memory remove reverted after write failure")
	}
	if kv.writes != 2 {
		t.Errorf("writes = %d, want 2", kv.writes)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := NewStore(storage.NewMemory(), "k", nil)
	s.Add(1)

	l := s.List()
	l[0].Page = 42

	if !s.Has(1) || s.Has(42) {
		t.Error("List() exposed internal slice")
	}
}
