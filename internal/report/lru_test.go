package report

import (
	"errors"
	"fmt"
	"testing"
)

func TestLRUStore_SaveLoad(t *testing.T) {
	s := NewLRUStore(3)
	rec := &Record{ID: "a", ExitCode: 1, Stderr: "boom"}
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Stderr != "boom" || !got.Failed() {
		t.Errorf("Load = %+v", got)
	}
}

func TestLRUStore_NotFound(t *testing.T) {
	s := NewLRUStore(3)
	_, err := s.Load("missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestLRUStore_Latest(t *testing.T) {
	s := NewLRUStore(3)
	if _, err := s.Latest(); err == nil {
		t.Fatal("expected error on empty store")
	}

	_ = s.Save(&Record{ID: "a"})
	_ = s.Save(&Record{ID: "b"})

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != "b" {
		t.Errorf("Latest = %q, want b", got.ID)
	}
}

func TestLRUStore_EvictsOldest(t *testing.T) {
	s := NewLRUStore(2)
	for i := 0; i < 3; i++ {
		_ = s.Save(&Record{ID: fmt.Sprintf("r%d", i)})
	}

	if _, err := s.Load("r0"); err == nil {
		t.Error("r0 still loadable, want evicted")
	}
	if _, err := s.Load("r2"); err != nil {
		t.Errorf("r2 not loadable: %v", err)
	}
}

func TestLRUStore_LoadRefreshesRecency(t *testing.T) {
	s := NewLRUStore(2)
	_ = s.Save(&Record{ID: "a"})
	_ = s.Save(&Record{ID: "b"})

	// Touch a so b becomes the eviction candidate.
	if _, err := s.Load("a"); err != nil {
		t.Fatal(err)
	}
	_ = s.Save(&Record{ID: "c"})

	if _, err := s.Load("a"); err != nil {
		t.Errorf("a evicted despite recent use: %v", err)
	}
	if _, err := s.Load("b"); err == nil {
		t.Error("b still loadable, want evicted")
	}
}
