// Package pdf wraps pdfcpu for the PDF helper view: merge, split,
// compress and page-count inspection.
package pdf

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/logging"
)

// SplitMode selects how a document is divided.
type SplitMode int

const (
	// SplitEveryPage produces one file per page.
	SplitEveryPage SplitMode = iota
	// SplitOddPages keeps only odd pages in a single output.
	SplitOddPages
	// SplitEvenPages keeps only even pages in a single output.
	SplitEvenPages
	// SplitAfterPages cuts the document after each listed page number.
	SplitAfterPages
	// SplitEveryN produces files of N pages each.
	SplitEveryN
)

// SplitOptions parameterizes Split. Pages is used by SplitAfterPages,
// N by SplitEveryN.
type SplitOptions struct {
	Mode  SplitMode
	N     int
	Pages []int
}

// ParseSplitMode maps the mode names used by the frontend selector.
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "every", "every_page", "all":
		return SplitEveryPage, nil
	case "odd", "odd_pages":
		return SplitOddPages, nil
	case "even", "even_pages":
		return SplitEvenPages, nil
	case "after", "after_pages":
		return SplitAfterPages, nil
	case "every_n", "chunks":
		return SplitEveryN, nil
	}
	return 0, fmt.Errorf("modo de divisão desconhecido: %s", s)
}

// Service performs PDF operations on files.
type Service struct {
	logger *logging.Logger
}

// NewService creates a PDF service. logger may be nil.
func NewService(logger *logging.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) logOp(op, path string) {
	if s.logger != nil {
		s.logger.Debug().Str("op", op).Str("path", path).Msg("pdf operation")
	}
}

// Merge concatenates inputs into output in the given order.
func (s *Service) Merge(inputs []string, output string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("selecione pelo menos dois arquivos PDF")
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			return fmt.Errorf("arquivo não encontrado: %s", in)
		}
	}
	if err := api.MergeCreateFile(inputs, output, false, nil); err != nil {
		return fmt.Errorf("falha ao juntar PDFs: %w", err)
	}
	s.logOp("merge", output)
	return nil
}

// Split divides input into outDir according to opts.
func (s *Service) Split(input, outDir string, opts SplitOptions) error {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("arquivo não encontrado: %s", input)
	}
	if err := os.MkdirAll(outDir, constants.DirPermission); err != nil {
		return fmt.Errorf("falha ao criar pasta de saída: %w", err)
	}

	var err error
	switch opts.Mode {
	case SplitEveryPage:
		err = api.SplitFile(input, outDir, 1, nil)
	case SplitEveryN:
		if opts.N < 1 {
			return fmt.Errorf("tamanho do bloco deve ser pelo menos 1")
		}
		err = api.SplitFile(input, outDir, opts.N, nil)
	case SplitAfterPages:
		pages, pageErr := normalizeCutPages(opts.Pages)
		if pageErr != nil {
			return pageErr
		}
		err = api.SplitByPageNrFile(input, outDir, pages, nil)
	case SplitOddPages:
		err = api.TrimFile(input, selectionOutputPath(input, outDir, "impares"), []string{"odd"}, nil)
	case SplitEvenPages:
		err = api.TrimFile(input, selectionOutputPath(input, outDir, "pares"), []string{"even"}, nil)
	default:
		return fmt.Errorf("modo de divisão inválido")
	}
	if err != nil {
		return fmt.Errorf("falha ao dividir PDF: %w", err)
	}
	s.logOp("split", outDir)
	return nil
}

// Compress rewrites input with pdfcpu's optimizer.
func (s *Service) Compress(input, output string) error {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("arquivo não encontrado: %s", input)
	}
	if err := api.OptimizeFile(input, output, nil); err != nil {
		return fmt.Errorf("falha ao comprimir PDF: %w", err)
	}
	s.logOp("compress", output)
	return nil
}

// DocInfo describes a PDF file for the inspection panel.
type DocInfo struct {
	Name      string
	SizeBytes int64
	Pages     int
	FileDate  string
}

// Info inspects input and returns its size, page count and file date
// (formatted 02/01/2006 15:04:05).
func (s *Service) Info(input string) (DocInfo, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return DocInfo{}, fmt.Errorf("arquivo não encontrado: %s", input)
	}
	pages, err := s.PageCount(input)
	if err != nil {
		return DocInfo{}, err
	}
	return DocInfo{
		Name:      baseName(input),
		SizeBytes: fi.Size(),
		Pages:     pages,
		FileDate:  fi.ModTime().Format("02/01/2006 15:04:05"),
	}, nil
}

// PageCount returns the number of pages in input.
func (s *Service) PageCount(input string) (int, error) {
	n, err := api.PageCountFile(input)
	if err != nil {
		return 0, fmt.Errorf("falha ao ler PDF: %w", err)
	}
	return n, nil
}

// normalizeCutPages sorts cut points, removes duplicates and rejects
// non-positive page numbers. pdfcpu cuts before each listed page, so
// "after page 3" becomes page number 4.
func normalizeCutPages(pages []int) ([]int, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("informe pelo menos uma página de corte")
	}
	seen := make(map[int]bool, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if p < 1 {
			return nil, fmt.Errorf("página de corte inválida: %d", p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p+1)
		}
	}
	sort.Ints(out)
	return out, nil
}

// ParseCutPages parses a comma-separated page list like "3, 7,10".
func ParseCutPages(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	var pages []int
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("página inválida: %s", part)
		}
		pages = append(pages, n)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("informe pelo menos uma página de corte")
	}
	return pages, nil
}

func selectionOutputPath(input, outDir, suffix string) string {
	base := strings.TrimSuffix(baseName(input), ".pdf")
	return outDir + string(os.PathSeparator) + base + "_" + suffix + ".pdf"
}

func baseName(path string) string {
	idx := strings.LastIndexAny(path, `/\`)
	return path[idx+1:]
}
