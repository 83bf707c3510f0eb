package fmindex

import (
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestLocate_Basic(t *testing.T) {
	ix := New([]byte("AAAAACCCCCGGGGGTTTTT"))
	offsets, truncated := ix.Locate([]byte("CCCCCGGGGG"), 0)
	if truncated {
		t.Fatal("should not be truncated")
	}
	if !reflect.DeepEqual(offsets, []int{5}) {
		t.Fatalf("offsets = %v, want [5]", offsets)
	}
}

func TestLocate_SortedAscending(t *testing.T) {
	ix := New([]byte("ACGTACGTACGT"))
	offsets, _ := ix.Locate([]byte("ACGT"), 0)
	if !sort.IntsAreSorted(offsets) {
		t.Fatalf("offsets not sorted: %v", offsets)
	}
	if len(offsets) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(offsets))
	}
}

func TestLocate_CapTruncates(t *testing.T) {
	ix := New([]byte("ACGTACGTACGTACGT"))
	offsets, truncated := ix.Locate([]byte("ACGT"), 2)
	if !truncated {
		t.Fatal("expected truncated=true")
	}
	if len(offsets) != 2 {
		t.Fatalf("len(offsets) = %d, want 2", len(offsets))
	}
}

func TestLocate_NoMatch(t *testing.T) {
	ix := New([]byte("AAAAAAAA"))
	offsets, truncated := ix.Locate([]byte("CCCC"), 0)
	if truncated {
		t.Fatal("should not be truncated")
	}
	if len(offsets) != 0 {
		t.Fatalf("expected no matches, got %v", offsets)
	}
}

func TestSaveLoad_RoundTripsLocate(t *testing.T) {
	text := []byte("ACGTACGTACGTGGGGCCCCACGT")
	ix := New(text)

	path := filepath.Join(t.TempDir(), "ref.fa.fm9")
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path, text)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Size() != ix.Size() {
		t.Fatalf("Size() = %d, want %d", reloaded.Size(), ix.Size())
	}

	want, _ := ix.Locate([]byte("ACGT"), 0)
	got, _ := reloaded.Locate([]byte("ACGT"), 0)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Locate after reload = %v, want %v", got, want)
	}
}

func TestSidecar_AppendsExtension(t *testing.T) {
	if got, want := Sidecar("/tmp/genome.fa"), "/tmp/genome.fa.fm9"; got != want {
		t.Fatalf("Sidecar = %q, want %q", got, want)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.fm9"), []byte("ACGT")); err == nil {
		t.Fatal("expected an error loading a nonexistent sidecar")
	}
}
