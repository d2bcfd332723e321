package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	frames := []Frame{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi", Metadata: map[string]any{"model": "test"}},
	}

	if err := store.Save("s1", frames); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() len = %d, want 2", len(got))
	}
	if got[0].Content != "hello" || got[1].Role != RoleAssistant {
		t.Errorf("Load() = %+v", got)
	}
	if got[1].Metadata["model"] != "test" {
		t.Errorf("metadata not preserved: %+v", got[1].Metadata)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Load("absent"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load() error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_SaveEmptyID(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("", nil); err == nil {
		t.Error("Save() with empty ID succeeded, want error")
	}
}

func TestStore_DeleteAndSessions(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"b", "a", "c"} {
		if err := store.Save(id, []Frame{{Role: RoleUser, Content: id}}); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Delete("b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete("missing"); err != nil {
		t.Errorf("Delete() missing session error = %v, want nil", err)
	}

	ids, err := store.Sessions()
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("Sessions() = %v, want [a c]", ids)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("s1", []Frame{{Role: RoleUser, Content: "persisted"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load("s1")
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if got[0].Content != "persisted" {
		t.Errorf("Load() = %+v", got)
	}
}

func TestStore_Closed(t *testing.T) {
	store := newTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if err := store.Save("s", nil); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Save() error = %v, want ErrStoreClosed", err)
	}
	if _, err := store.Load("s"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Load() error = %v, want ErrStoreClosed", err)
	}
}
