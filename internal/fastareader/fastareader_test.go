package fastareader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadAll_ParsesMultiRecordFasta(t *testing.T) {
	path := writeTemp(t, "ref.fa", ">chr1 test chromosome\nACGT\nACGT\n>chr2\nTTTT\n")
	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "chr1" || string(records[0].Seq) != "ACGTACGT" {
		t.Fatalf("records[0] = %+v", records[0])
	}
	if records[0].Desc != "test chromosome" {
		t.Fatalf("records[0].Desc = %q", records[0].Desc)
	}
	if records[1].ID != "chr2" || string(records[1].Seq) != "TTTT" {
		t.Fatalf("records[1] = %+v", records[1])
	}
}

func TestReadAll_UppercasesSequence(t *testing.T) {
	path := writeTemp(t, "lower.fa", ">chr1\nacgtACGT\n")
	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(records[0].Seq) != "ACGTACGT" {
		t.Fatalf("Seq = %q, want uppercased", records[0].Seq)
	}
}

func TestLoadReference_BuildsConcatenation(t *testing.T) {
	path := writeTemp(t, "ref.fa", ">chr1\nAAAA\n>chr2\nCCCC\n")
	ref, err := LoadReference(path)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if len(ref.Sequences) != 2 {
		t.Fatalf("len(Sequences) = %d, want 2", len(ref.Sequences))
	}
	if ref.Sequences[0].Name != "chr1" || ref.Sequences[1].Name != "chr2" {
		t.Fatalf("Sequences = %+v", ref.Sequences)
	}
}

func TestLoadPrimers_UsesHeaderDescriptionAsName(t *testing.T) {
	path := writeTemp(t, "primers.fa", ">p1 forward primer\nACGTACGTAC\n>p2\nTTGGCCTTGG\n")
	primers, err := LoadPrimers(path)
	if err != nil {
		t.Fatalf("LoadPrimers: %v", err)
	}
	if len(primers) != 2 {
		t.Fatalf("len(primers) = %d, want 2", len(primers))
	}
	if primers[0].ID != "p1" || primers[0].Name != "forward primer" {
		t.Fatalf("primers[0] = %+v", primers[0])
	}
	if primers[1].ID != "p2" || primers[1].Name != "p2" {
		t.Fatalf("primers[1] = %+v", primers[1])
	}
}

func TestReadAll_MissingFileReturnsError(t *testing.T) {
	if _, err := ReadAll("/nonexistent/path.fa"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
