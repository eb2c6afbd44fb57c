package cache

import (
	"encoding/json"
	"testing"
)

func TestMemory_GetSetRemove(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get("cached_projects"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	m.Set("cached_projects", json.RawMessage(`[{"id":"p-1"}]`))
	v, ok := m.Get("cached_projects")
	if !ok || string(v) != `[{"id":"p-1"}]` {
		t.Fatalf("unexpected value: %q ok=%v", v, ok)
	}

	// Last write wins.
	m.Set("cached_projects", json.RawMessage(`[]`))
	v, _ = m.Get("cached_projects")
	if string(v) != `[]` {
		t.Fatalf("expected overwrite, got %q", v)
	}

	m.Remove("cached_projects")
	if _, ok := m.Get("cached_projects"); ok {
		t.Fatalf("expected miss after remove")
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", m.Len())
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := json.RawMessage(`{"id":"p-1"}`)
	m.Set("project_draft:p-1", buf)
	buf[2] = 'X'

	v, _ := m.Get("project_draft:p-1")
	if string(v) != `{"id":"p-1"}` {
		t.Fatalf("cache must not alias caller buffers, got %q", v)
	}
}
