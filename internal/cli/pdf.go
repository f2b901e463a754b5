// Package cli provides PDF tool commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/pdf"
)

// newPDFCmd creates the 'pdf' command group.
func newPDFCmd() *cobra.Command {
	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "PDF operations (merge, split, compress, pages)",
	}

	pdfCmd.AddCommand(newPDFMergeCmd())
	pdfCmd.AddCommand(newPDFSplitCmd())
	pdfCmd.AddCommand(newPDFCompressCmd())
	pdfCmd.AddCommand(newPDFPagesCmd())
	pdfCmd.AddCommand(newPDFInfoCmd())

	return pdfCmd
}

// newPDFMergeCmd creates the 'pdf merge' command.
func newPDFMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <input.pdf> <input.pdf> [more...]",
		Short: "Merge PDFs into one file, in argument order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			svc := pdf.NewService(GetLogger())
			if err := svc.Merge(args, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mesclado em %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")

	return cmd
}

// newPDFSplitCmd creates the 'pdf split' command.
func newPDFSplitCmd() *cobra.Command {
	var outDir string
	var mode string
	var pages string
	var chunk int

	cmd := &cobra.Command{
		Use:   "split <input.pdf>",
		Short: "Split a PDF",
		Long: `Split a PDF into the output directory.

Modes:
  every_page  one file per page (default)
  odd_pages   odd pages only, single file
  even_pages  even pages only, single file
  after_pages cut after each page listed with --pages
  every_n     files of --chunk pages each

Example:
  utildesk pdf split contrato.pdf --out ./partes --mode after_pages --pages 2,5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			splitMode, err := pdf.ParseSplitMode(mode)
			if err != nil {
				return err
			}
			opts := pdf.SplitOptions{Mode: splitMode, N: chunk}
			if pages != "" {
				cutPages, err := pdf.ParseCutPages(pages)
				if err != nil {
					return err
				}
				opts.Pages = cutPages
			}

			svc := pdf.NewService(GetLogger())
			if err := svc.Split(args[0], outDir, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dividido em %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().StringVar(&mode, "mode", "every_page", "Split mode")
	cmd.Flags().StringVar(&pages, "pages", "", "Comma-separated cut pages for after_pages")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Pages per file for every_n")

	return cmd
}

// newPDFCompressCmd creates the 'pdf compress' command.
func newPDFCompressCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compress <input.pdf>",
		Short: "Write an optimized copy of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			svc := pdf.NewService(GetLogger())
			if err := svc.Compress(args[0], output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Otimizado em %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")

	return cmd
}

// newPDFInfoCmd creates the 'pdf info' command.
func newPDFInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.pdf>",
		Short: "Print name, size, page count and file date of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := pdf.NewService(GetLogger())
			info, err := svc.Info(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Arquivo:  %s\n", info.Name)
			fmt.Fprintf(out, "Tamanho:  %d bytes\n", info.SizeBytes)
			fmt.Fprintf(out, "Páginas:  %d\n", info.Pages)
			fmt.Fprintf(out, "Data:     %s\n", info.FileDate)
			return nil
		},
	}
}

// newPDFPagesCmd creates the 'pdf pages' command.
func newPDFPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages <input.pdf>",
		Short: "Print the page count of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := pdf.NewService(GetLogger())
			count, err := svc.PageCount(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}
}
