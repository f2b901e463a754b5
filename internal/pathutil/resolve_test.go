package pathutil

import (
	"path/filepath"
	"testing"
)

func TestResolveAbsolutePath_Empty(t *testing.T) {
	got, err := ResolveAbsolutePath("")
	if err != nil {
		t.Fatalf("ResolveAbsolutePath failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected absolute path, got %q", got)
	}
}

func TestResolveAbsolutePath_NonExistent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "does", "not", "exist")

	got, err := ResolveAbsolutePath(target)
	if err != nil {
		t.Fatalf("ResolveAbsolutePath failed: %v", err)
	}
	if filepath.Base(got) != "exist" {
		t.Errorf("Expected path ending in 'exist', got %q", got)
	}
}

func TestBreadcrumbs(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want []string
	}{
		{
			name: "unc nested",
			root: `\\SRV\Clientes$`,
			path: `\\SRV\Clientes$\Acme\2024`,
			want: []string{"Clientes$", "Acme", "2024"},
		},
		{
			name: "root itself",
			root: `\\SRV\Clientes$`,
			path: `\\SRV\Clientes$`,
			want: []string{"Clientes$"},
		},
		{
			name: "case insensitive prefix",
			root: `\\srv\clientes$`,
			path: `\\SRV\Clientes$\Acme`,
			want: []string{"clientes$", "Acme"},
		},
		{
			name: "unix style",
			root: "/mnt/clientes",
			path: "/mnt/clientes/Acme/Docs",
			want: []string{"clientes", "Acme", "Docs"},
		},
		{
			name: "trailing separator on root",
			root: "/mnt/clientes/",
			path: "/mnt/clientes/Acme",
			want: []string{"clientes", "Acme"},
		},
		{
			name: "outside root",
			root: `\\SRV\Clientes$`,
			path: `\\SRV\Outro\Acme`,
			want: nil,
		},
		{
			name: "sibling with shared prefix",
			root: "/mnt/clientes",
			path: "/mnt/clientes-backup/Acme",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breadcrumbs(tt.root, tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("Breadcrumbs(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: got %q want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	got := DisplayPath(`\\SRV\Clientes$`, `\\SRV\Clientes$\Acme\2024`)
	want := "Clientes$ › Acme › 2024"
	if got != want {
		t.Errorf("DisplayPath = %q, want %q", got, want)
	}

	// Outside the root the path is returned unchanged.
	outside := DisplayPath(`\\SRV\Clientes$`, `C:\Temp`)
	if outside != `C:\Temp` {
		t.Errorf("DisplayPath outside root = %q", outside)
	}
}
