package shares

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/utildesk/utildesk/internal/constants"
)

// CopyProgress reports drag-and-drop ingestion progress. Index is the
// 1-based position of the source currently being copied.
type CopyProgress struct {
	Source       string
	Index        int
	Total        int
	BytesCurrent int64
	BytesTotal   int64
}

// ProgressFunc receives periodic progress updates during CopyPaths.
// May be nil.
type ProgressFunc func(CopyProgress)

// CopyResult summarizes a multi-source copy. Partial failure is not
// itemized beyond the counts and the first error message.
type CopyResult struct {
	Copied   int
	Failed   int
	FirstErr string
}

// CopyPaths copies each source path (file or directory tree) into
// destDir, which must validate inside the share. Sources come from the
// OS drag-and-drop event and may live anywhere on the machine. Copying
// continues past per-source failures; the summary carries the counts.
func (s *Share) CopyPaths(sourcePaths []string, destDir string, progress ProgressFunc) (CopyResult, error) {
	dest, err := s.ValidatePath(destDir)
	if err != nil {
		return CopyResult{}, err
	}
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return CopyResult{}, fmt.Errorf("Destino não é um diretório válido")
	}

	var result CopyResult
	total := len(sourcePaths)

	for i, src := range sourcePaths {
		report := func(current, totalBytes int64) {
			if progress != nil {
				progress(CopyProgress{
					Source:       src,
					Index:        i + 1,
					Total:        total,
					BytesCurrent: current,
					BytesTotal:   totalBytes,
				})
			}
		}

		srcInfo, err := os.Stat(src)
		if err != nil {
			result.Failed++
			if result.FirstErr == "" {
				result.FirstErr = fmt.Sprintf("Falha ao copiar '%s': %v", filepath.Base(src), err)
			}
			continue
		}

		target := filepath.Join(dest, filepath.Base(src))
		if _, err := os.Stat(target); err == nil {
			result.Failed++
			if result.FirstErr == "" {
				result.FirstErr = fmt.Sprintf("Já existe um item com o nome '%s' no destino", filepath.Base(src))
			}
			continue
		}

		if srcInfo.IsDir() {
			err = copyDir(src, target, report)
		} else {
			err = copyFile(src, target, srcInfo.Mode(), report)
		}
		if err != nil {
			result.Failed++
			if result.FirstErr == "" {
				result.FirstErr = fmt.Sprintf("Falha ao copiar '%s': %v", filepath.Base(src), err)
			}
			continue
		}
		result.Copied++
	}

	return result, nil
}

func copyFile(src, dst string, mode iofs.FileMode, report func(current, total int64)) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	pw := &progressWriter{w: out, total: info.Size(), report: report}
	if _, err := io.Copy(pw, in); err != nil {
		return err
	}
	if err := out.Chmod(mode.Perm()); err != nil {
		return err
	}
	return out.Sync()
}

// copyDir copies a directory tree. A single fastwalk pass collects the
// work list and the total byte count; fastwalk calls the walker from
// several goroutines, so the list and the total are synchronized. Items
// are then sorted directories-first, shortest path first, so parents
// exist before their contents are copied and byte progress is monotonic.
func copyDir(src, dst string, report func(current, total int64)) error {
	type copyItem struct {
		srcPath string
		dstPath string
		isDir   bool
		mode    iofs.FileMode
		size    int64
	}

	var items []copyItem
	var itemsMu sync.Mutex
	var totalSize atomic.Int64
	srcLen := len(src)

	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, src, func(fullPath string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Skip unreadable entries, continue walking
		}

		rel := fullPath[min(srcLen, len(fullPath)):]
		if len(rel) > 0 && (rel[0] == '/' || rel[0] == '\\') {
			rel = rel[1:]
		}
		if rel == "" {
			return nil // Source root itself
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			return nil
		}

		item := copyItem{
			srcPath: fullPath,
			dstPath: filepath.Join(dst, rel),
			isDir:   info.IsDir(),
			mode:    info.Mode(),
		}
		if !item.isDir {
			item.size = info.Size()
			totalSize.Add(item.size)
		}
		itemsMu.Lock()
		items = append(items, item)
		itemsMu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, constants.DirPermission); err != nil {
		return err
	}

	// Directories before files, parents before children.
	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dstPath) < len(items[j].dstPath)
	})

	totalBytes := totalSize.Load()
	var copied int64
	for _, item := range items {
		if item.isDir {
			if err := os.MkdirAll(item.dstPath, item.mode.Perm()); err != nil {
				return err
			}
			continue
		}
		base := copied
		err := copyFile(item.srcPath, item.dstPath, item.mode, func(current, _ int64) {
			report(base+current, totalBytes)
		})
		if err != nil {
			return err
		}
		copied += item.size
	}

	report(copied, totalBytes)
	return nil
}

// progressWriter counts bytes written and reports after every chunk.
type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  func(current, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.report != nil {
		p.report(p.written, p.total)
	}
	return n, err
}
