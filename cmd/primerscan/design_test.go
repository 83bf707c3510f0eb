package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"primerscan/internal/model"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestExecute_BindingsCommandEmitsJSON(t *testing.T) {
	ref := writeFixture(t, "ref.fa", ">chr1\n"+strings.Repeat("A", 10)+"ACGTACGTAC"+strings.Repeat("A", 90)+"\n")
	primers := writeFixture(t, "primers.fa", ">F\nACGTACGTAC\n")

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{
		"bindings",
		"--reference", ref,
		"--primers", primers,
		"--distance", "0",
		"--cut-temp", "-1000",
		"--format", "json",
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("Execute returned code %d, stderr=%q", code, stderr.String())
	}

	var bindings []model.Binding
	if err := json.Unmarshal(stdout.Bytes(), &bindings); err != nil {
		t.Fatalf("json.Unmarshal(%q): %v", stdout.String(), err)
	}
	if len(bindings) != 1 {
		t.Fatalf("len(bindings) = %d, want 1: %+v", len(bindings), bindings)
	}
	if bindings[0].Site != "ACGTACGTAC" {
		t.Fatalf("Site = %q, want ACGTACGTAC", bindings[0].Site)
	}
}

func TestExecute_MissingReferenceFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"bindings", "--primers", "x.fa"}, &stdout, &stderr)
	if code == 0 {
		t.Fatal("expected a non-zero exit code when --reference is missing")
	}
}

func TestExecute_VersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"version"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Execute returned code %d, stderr=%q", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) == "" {
		t.Fatal("expected a version string on stdout")
	}
}
