// Package wailsapp provides PDF tool Wails bindings.
package wailsapp

import (
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/utildesk/utildesk/internal/pdf"
)

// SelectPDFFiles opens a native multi-select dialog filtered to PDFs.
func (a *App) SelectPDFFiles() ([]string, error) {
	return runtime.OpenMultipleFilesDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Selecione os arquivos PDF",
		Filters: []runtime.FileFilter{
			{DisplayName: "Arquivos PDF (*.pdf)", Pattern: "*.pdf"},
		},
	})
}

// SelectOutputDirectory opens a native directory picker.
func (a *App) SelectOutputDirectory() (string, error) {
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Selecione a pasta de destino",
	})
}

// MergePDFs merges two or more PDFs into output, in the given order.
func (a *App) MergePDFs(inputs []string, output string) error {
	if err := a.pdf.Merge(inputs, output); err != nil {
		a.logError("pdf", err.Error())
		return err
	}
	a.logInfo("pdf", fmt.Sprintf("%d arquivos mesclados em %s", len(inputs), output))
	return nil
}

// SplitPDF splits a PDF into outDir. Mode is "every_page", "odd_pages",
// "even_pages", "after_pages" or "every_n"; pages is the comma list of
// cut pages for "after_pages" and the chunk size for "every_n".
func (a *App) SplitPDF(input, outDir, mode, pages string, chunkSize int) error {
	splitMode, err := pdf.ParseSplitMode(mode)
	if err != nil {
		return err
	}
	opts := pdf.SplitOptions{Mode: splitMode, N: chunkSize}
	if pages != "" {
		cutPages, err := pdf.ParseCutPages(pages)
		if err != nil {
			return err
		}
		opts.Pages = cutPages
	}
	if err := a.pdf.Split(input, outDir, opts); err != nil {
		a.logError("pdf", err.Error())
		return err
	}
	a.logInfo("pdf", fmt.Sprintf("PDF dividido em %s", outDir))
	return nil
}

// CompressPDF writes an optimized copy of input to output.
func (a *App) CompressPDF(input, output string) error {
	if err := a.pdf.Compress(input, output); err != nil {
		a.logError("pdf", err.Error())
		return err
	}
	a.logInfo("pdf", fmt.Sprintf("PDF otimizado em %s", output))
	return nil
}

// GetPDFPageCount returns the number of pages of a PDF.
func (a *App) GetPDFPageCount(input string) (int, error) {
	return a.pdf.PageCount(input)
}

// PDFInfoDTO describes a PDF file for the inspection panel.
type PDFInfoDTO struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	Pages     int    `json:"pages"`
	FileDate  string `json:"fileDate"`
}

// GetPDFInfo returns name, size, page count and file date of a PDF.
func (a *App) GetPDFInfo(input string) (PDFInfoDTO, error) {
	info, err := a.pdf.Info(input)
	if err != nil {
		a.logError("pdf", err.Error())
		return PDFInfoDTO{}, err
	}
	return PDFInfoDTO{
		Name:      info.Name,
		SizeBytes: info.SizeBytes,
		Pages:     info.Pages,
		FileDate:  info.FileDate,
	}, nil
}
