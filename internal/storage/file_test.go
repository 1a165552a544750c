package storage

import (
	"context"
	"path/filepath"
	"testing"

	logx "studenthub/pkg/logx"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := Config{Driver: "file", Path: filepath.Join(dir, "hub")}
	ctx := context.Background()

	st, err := Open(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := st.Put(ctx, "courses", []byte(`[{"name":"Calculus"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put(ctx, "isLoggedIn", []byte(`true`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Delete(ctx, "isLoggedIn"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify the journal/snapshot survived.
	st, err = Open(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	v, ok, err := st.Get(ctx, "courses")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"name":"Calculus"}]` {
		t.Fatalf("unexpected value %s", v)
	}
	if _, ok, _ := st.Get(ctx, "isLoggedIn"); ok {
		t.Fatal("deleted key resurfaced after reopen")
	}
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	st, err := Open(Config{Driver: "file", Path: filepath.Join(dir, "hub")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if err := st.Put(context.Background(), "junk", []byte(`{broken`)); err == nil {
		t.Fatal("expected error for invalid JSON value")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	st, err := Open(Config{Driver: "sqlite", Path: filepath.Join(dir, "hub.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if err := st.Put(ctx, "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put(ctx, "tasks", []byte(`[{"title":"essay"}]`)); err != nil {
		t.Fatalf("Put upsert: %v", err)
	}

	v, ok, err := st.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"title":"essay"}]` {
		t.Fatalf("unexpected value %s", v)
	}

	if err := st.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "tasks"); ok {
		t.Fatal("key survived delete")
	}
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{Driver: "none"}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil store for disabled driver")
	}
}
