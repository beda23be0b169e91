package library

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

// getTestdataPath returns path to testdata/scenarios.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "scenarios")
}

func TestLoaderLoadAll(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	all, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("expected 2 valid scenarios, got %d", len(all))
	}

	// Should be sorted by ID
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("scenarios not sorted: %s >= %s", all[i-1].ID, all[i].ID)
		}
	}
}

func TestLoaderLoadByID(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	s, err := loader.LoadByID("alpha-duel")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if s.Title != "Alpha Duel" {
		t.Errorf("expected title 'Alpha Duel', got %q", s.Title)
	}
	if len(s.Ships) != 2 {
		t.Fatalf("expected 2 ships, got %d", len(s.Ships))
	}
	if len(s.Shots) != 3 {
		t.Errorf("expected repeated shot to expand to 3, got %d", len(s.Shots))
	}
	if s.FilePath == "" {
		t.Error("FilePath not set")
	}
}

func TestLoaderNestedDirectory(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	s, err := loader.LoadByID("beta-ion")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if filepath.Base(filepath.Dir(s.FilePath)) != "nested" {
		t.Errorf("expected nested file, got %s", s.FilePath)
	}
}

func TestLoaderNotFound(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	if _, err := loader.LoadByID("broken"); err == nil {
		t.Error("invalid scenario should not be loadable by ID")
	}
	if _, err := loader.LoadByID("nonexistent"); err == nil {
		t.Error("expected error for missing scenario")
	}
}

func TestLoaderLoadFileInvalid(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	_, err := loader.LoadFile(filepath.Join(getTestdataPath(), "broken.yaml"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve scenario.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected a ValidationError in %v", err)
	}

	if _, err := loader.LoadFile(filepath.Join(getTestdataPath(), "notes.txt")); err == nil {
		t.Error("expected unsupported extension error")
	}
}

func TestLoaderListIDs(t *testing.T) {
	loader := NewLoader(getTestdataPath())

	ids, err := loader.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	expected := []string{"alpha-duel", "beta-ion"}
	if len(ids) != len(expected) {
		t.Fatalf("ids = %v, expected %v", ids, expected)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("ids[%d] = %q, expected %q", i, ids[i], expected[i])
		}
	}
}

func TestLoaderMissingRoot(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent"))
	if _, err := loader.LoadAll(); err == nil {
		t.Error("expected error for missing root")
	}
}
