package shares

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/logging"
)

// Share confines all filesystem operations to a single root directory
// (the client-folder network share). Every path argument is validated
// to canonicalize inside the root before any operation touches it.
type Share struct {
	root   string // canonicalized base path
	logger *logging.Logger
}

// NewShare creates a Share rooted at basePath. The base itself is
// canonicalized once so later prefix checks compare like with like;
// when the share is unreachable at startup the raw path is kept and
// operations fail per call.
func NewShare(basePath string, logger *logging.Logger) *Share {
	root := basePath
	if resolved, err := filepath.EvalSymlinks(basePath); err == nil {
		root = normalizeUNC(resolved)
	}
	return &Share{root: root, logger: logger}
}

// Root returns the canonicalized share root.
func (s *Share) Root() string {
	return s.root
}

func (s *Share) logOp(op, path string) {
	if s.logger != nil {
		s.logger.Debug().Str("op", op).Str("path", path).Msg("share operation")
	}
}

// ValidatePath canonicalizes requested and verifies it lies within the
// share root. Returns the canonical path.
func (s *Share) ValidatePath(requested string) (string, error) {
	canonical, err := filepath.EvalSymlinks(requested)
	if err != nil {
		return "", fmt.Errorf("Caminho inválido ou inacessível: %v", err)
	}
	canonical = normalizeUNC(canonical)

	if !pathWithin(s.root, canonical) {
		return "", fmt.Errorf("Acesso negado: caminho fora do diretório permitido")
	}
	return canonical, nil
}

// normalizeUNC strips the Windows extended-length prefix:
// \\?\UNC\server\share -> \\server\share, \\?\C:\x -> C:\x.
func normalizeUNC(p string) string {
	if strings.HasPrefix(p, `\\?\UNC\`) {
		return `\\` + p[len(`\\?\UNC\`):]
	}
	if strings.HasPrefix(p, `\\?\`) {
		return p[len(`\\?\`):]
	}
	return p
}

// pathWithin reports whether p equals root or is nested under it,
// comparing case-insensitively since the share lives on SMB.
func pathWithin(root, p string) bool {
	rl := strings.ToLower(root)
	pl := strings.ToLower(p)
	if pl == rl {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(rl, sep) {
		rl += sep
	}
	return strings.HasPrefix(pl, rl)
}

// ListNetworkFolders returns the top-level directory names of the share
// root, sorted case-insensitively. These are the candidates for the
// "add folders" picker.
func (s *Share) ListNetworkFolders() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("Falha ao acessar %s: %v", s.root, err)
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i]) < strings.ToLower(folders[j])
	})
	return folders, nil
}

// ListDirectory returns the entries of a validated directory.
func (s *Share) ListDirectory(path string, opts ListOptions) ([]DirEntry, error) {
	validated, err := s.ValidatePath(path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(validated)
	if err != nil {
		return nil, fmt.Errorf("Falha ao listar diretório: %v", err)
	}

	items := make([]listItem, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !opts.IncludeHidden && IsHiddenName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Skip entries we can't stat (permission issues, etc.)
			continue
		}
		var size int64
		var mod time.Time
		if !info.IsDir() {
			size = info.Size()
		}
		mod = info.ModTime()
		items = append(items, newListItem(name, entry.IsDir(), size, mod))
	}

	sortItems(items, opts)

	result := make([]DirEntry, len(items))
	for i, it := range items {
		result[i] = it.entry
	}
	return result, nil
}

// CreateDirectory creates a new folder under a validated parent.
func (s *Share) CreateDirectory(parentPath, folderName string) error {
	if err := validateEntryName(folderName); err != nil {
		return err
	}
	parent, err := s.ValidatePath(parentPath)
	if err != nil {
		return err
	}

	target := filepath.Join(parent, folderName)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("Já existe um item com o nome '%s'", folderName)
	}
	if err := os.Mkdir(target, constants.DirPermission); err != nil {
		return fmt.Errorf("Falha ao criar pasta: %v", err)
	}
	s.logOp("mkdir", target)
	return nil
}

// RenameEntry renames a file or directory in place. The new name must
// be a bare name, not a path.
func (s *Share) RenameEntry(oldPath, newName string) error {
	if err := validateEntryName(newName); err != nil {
		return err
	}

	validated, err := s.ValidatePath(oldPath)
	if err != nil {
		return err
	}

	parent := filepath.Dir(validated)
	newPath := filepath.Join(parent, newName)

	if !pathWithin(s.root, newPath) {
		return fmt.Errorf("Acesso negado: caminho de destino fora do diretório permitido")
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("Já existe um item com o nome '%s'", newName)
	}
	if err := os.Rename(validated, newPath); err != nil {
		return fmt.Errorf("Falha ao renomear: %v", err)
	}
	s.logOp("rename", newPath)
	return nil
}

// MoveEntry moves a file or directory into destFolder (an absolute
// path inside the share). The entry keeps its base name.
func (s *Share) MoveEntry(sourcePath, destFolder string) error {
	source, err := s.ValidatePath(sourcePath)
	if err != nil {
		return err
	}
	dest, err := s.ValidatePath(destFolder)
	if err != nil {
		return err
	}

	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("Destino não é um diretório válido")
	}

	name := filepath.Base(source)
	target := filepath.Join(dest, name)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("Já existe um item com o nome '%s' no destino", name)
	}
	if err := os.Rename(source, target); err != nil {
		return fmt.Errorf("Falha ao mover: %v", err)
	}
	s.logOp("move", target)
	return nil
}

// DeleteEntry removes a file or (recursively) a directory. isDir must
// match what the caller saw in the listing; a mismatch fails rather
// than guessing.
func (s *Share) DeleteEntry(path string, isDir bool) error {
	validated, err := s.ValidatePath(path)
	if err != nil {
		return err
	}

	if isDir {
		if err := os.RemoveAll(validated); err != nil {
			return fmt.Errorf("Falha ao excluir pasta: %v", err)
		}
		s.logOp("rmdir", validated)
		return nil
	}
	if err := os.Remove(validated); err != nil {
		return fmt.Errorf("Falha ao excluir arquivo: %v", err)
	}
	s.logOp("rm", validated)
	return nil
}

// validateEntryName rejects names containing separators or NUL.
func validateEntryName(name string) error {
	if name == "" || strings.ContainsAny(name, "\\/\x00") {
		return fmt.Errorf("Nome inválido: não pode conter barras ou caracteres nulos")
	}
	return nil
}
