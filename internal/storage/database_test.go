package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/example/hskstudio/internal/progress"
	"github.com/example/hskstudio/internal/srs"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadProgressEmptyStore(t *testing.T) {
	db := openTestDB(t)

	p, err := db.LoadProgress()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(p, progress.Defaults()) {
		t.Errorf("expected defaults from an empty store, got %+v", p)
	}
}

func TestSaveAndLoadProgress(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	p := progress.Defaults()
	srs.ApplyOutcome(p.Radicals.Ensure("r-9"), true, now)
	p.QuizStats.Correct = 5
	p.AddDaily(progress.CounterRadicals, 1, now)

	if err := db.SaveProgress(p); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := db.LoadProgress()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !reflect.DeepEqual(loaded, p) {
		t.Errorf("loaded progress differs:\nsaved  %+v\nloaded %+v", p, loaded)
	}
}

func TestSaveProgressOverwrites(t *testing.T) {
	db := openTestDB(t)

	first := progress.Defaults()
	first.QuizStats.Correct = 1
	if err := db.SaveProgress(first); err != nil {
		t.Fatal(err)
	}

	second := progress.Defaults()
	second.QuizStats.Correct = 2
	if err := db.SaveProgress(second); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadProgress()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.QuizStats.Correct != 2 {
		t.Errorf("expected latest save to win, got %d", loaded.QuizStats.Correct)
	}
}

func TestLoadProgressCorruptDocument(t *testing.T) {
	db := openTestDB(t)

	_, err := db.conn.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
	`, ProgressKey, "{definitely not json", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	p, err := db.LoadProgress()
	if err != nil {
		t.Fatalf("corrupt document must not propagate an error, got %v", err)
	}
	if !reflect.DeepEqual(p, progress.Defaults()) {
		t.Errorf("expected defaults for a corrupt document, got %+v", p)
	}
}

func TestClearProgress(t *testing.T) {
	db := openTestDB(t)

	p := progress.Defaults()
	p.QuizStats.Wrong = 9
	if err := db.SaveProgress(p); err != nil {
		t.Fatal(err)
	}
	if err := db.ClearProgress(); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadProgress()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, progress.Defaults()) {
		t.Errorf("expected defaults after clear, got %+v", loaded)
	}
}
