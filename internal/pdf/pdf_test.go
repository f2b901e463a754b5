package pdf

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSplitMode(t *testing.T) {
	cases := []struct {
		in   string
		want SplitMode
	}{
		{"every", SplitEveryPage},
		{"EVERY_PAGE", SplitEveryPage},
		{"odd", SplitOddPages},
		{"even_pages", SplitEvenPages},
		{" after ", SplitAfterPages},
		{"chunks", SplitEveryN},
	}
	for _, c := range cases {
		got, err := ParseSplitMode(c.in)
		if err != nil {
			t.Errorf("ParseSplitMode(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSplitMode(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseSplitMode("banana"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestParseCutPages(t *testing.T) {
	pages, err := ParseCutPages("3, 7,10")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 || pages[0] != 3 || pages[1] != 7 || pages[2] != 10 {
		t.Errorf("Unexpected pages %v", pages)
	}

	if _, err := ParseCutPages(""); err == nil {
		t.Error("Expected error for empty list")
	}
	if _, err := ParseCutPages("3,x"); err == nil {
		t.Error("Expected error for non-numeric page")
	}
}

func TestNormalizeCutPages(t *testing.T) {
	pages, err := normalizeCutPages([]int{7, 3, 3})
	if err != nil {
		t.Fatal(err)
	}
	// Cut after page N means the next file starts at N+1.
	if len(pages) != 2 || pages[0] != 4 || pages[1] != 8 {
		t.Errorf("Unexpected normalized pages %v", pages)
	}

	if _, err := normalizeCutPages(nil); err == nil {
		t.Error("Expected error for empty cut list")
	}
	if _, err := normalizeCutPages([]int{0}); err == nil {
		t.Error("Expected error for page zero")
	}
}

func TestMerge_Validation(t *testing.T) {
	svc := NewService(nil)

	if err := svc.Merge([]string{"only.pdf"}, "out.pdf"); err == nil {
		t.Error("Expected error for a single input")
	}

	missing := filepath.Join(t.TempDir(), "missing.pdf")
	err := svc.Merge([]string{missing, missing}, "out.pdf")
	if err == nil || !strings.Contains(err.Error(), "não encontrado") {
		t.Errorf("Expected missing-file error, got %v", err)
	}
}

func TestSplit_Validation(t *testing.T) {
	svc := NewService(nil)
	dir := t.TempDir()

	err := svc.Split(filepath.Join(dir, "missing.pdf"), dir, SplitOptions{Mode: SplitEveryPage})
	if err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestSelectionOutputPath(t *testing.T) {
	got := selectionOutputPath("/docs/contrato.pdf", "/tmp/out", "impares")
	if !strings.HasSuffix(got, "contrato_impares.pdf") {
		t.Errorf("Unexpected output path %q", got)
	}
}
