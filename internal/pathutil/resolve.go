// Package pathutil provides path resolution and display helpers shared
// by the explorer, CLI and GUI entry points.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveAbsolutePath converts a relative path to an absolute path.
// Symlinks and junctions are resolved in the existing portion of the
// path, then any non-existent components are appended. This handles
// user folders (like Downloads) that are junction points when the
// target subdirectory does not exist yet.
func ResolveAbsolutePath(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Fast path when the full path exists
	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}

	// Path doesn't fully exist - find the deepest existing ancestor,
	// resolve it, then append the rest.
	current := absPath
	var remainder []string

	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				resolved = current
			}
			for i := len(remainder) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, remainder[i])
			}
			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absPath, nil
		}
		remainder = append(remainder, filepath.Base(current))
		current = parent
	}
}

// DisplayPath derives the path shown in the explorer breadcrumb: the
// given absolute path relative to the share root, prefixed with the
// root's base name. Paths outside the root are returned unchanged.
//
//	DisplayPath(`\\SRV\Clientes$`, `\\SRV\Clientes$\Acme\2024`) == `Clientes$ › Acme › 2024`
func DisplayPath(root, path string) string {
	segs := Breadcrumbs(root, path)
	if segs == nil {
		return path
	}
	return strings.Join(segs, " › ")
}

// Breadcrumbs splits a path under root into display segments, starting
// with the root's base name. Returns nil when path is not under root.
func Breadcrumbs(root, path string) []string {
	nRoot := normalize(root)
	nPath := normalize(path)

	if !strings.EqualFold(nPath, nRoot) &&
		!strings.HasPrefix(strings.ToLower(nPath), strings.ToLower(nRoot)+"/") {
		return nil
	}

	segs := []string{baseName(nRoot)}
	if strings.EqualFold(nPath, nRoot) {
		return segs
	}

	rel := nPath[len(nRoot)+1:]
	for _, part := range strings.Split(rel, "/") {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

// normalize converts separators to forward slashes and trims trailing
// separators, preserving UNC-style leading slashes.
func normalize(p string) string {
	n := strings.ReplaceAll(p, `\`, "/")
	for len(n) > 1 && strings.HasSuffix(n, "/") {
		n = n[:len(n)-1]
	}
	return n
}

func baseName(normalized string) string {
	idx := strings.LastIndex(normalized, "/")
	if idx < 0 || idx == len(normalized)-1 {
		return normalized
	}
	return normalized[idx+1:]
}
