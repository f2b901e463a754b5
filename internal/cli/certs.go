// Package cli provides certificate inventory commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/certs"
)

// newCertsCmd creates the 'certs' command group.
func newCertsCmd() *cobra.Command {
	certsCmd := &cobra.Command{
		Use:   "certs",
		Short: "Digital certificate inventory",
	}

	certsCmd.AddCommand(newCertsListCmd())

	return certsCmd
}

// newCertsListCmd creates the 'certs list' command.
func newCertsListCmd() *cobra.Command {
	var dir string
	var password string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List certificates in the configured directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanDir := dir
			if scanDir == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				scanDir = cfg.CertificateDir
			}
			if scanDir == "" {
				return fmt.Errorf("nenhum diretório de certificados configurado (use --dir)")
			}

			inv := certs.NewInventory(scanDir, GetLogger())
			if password != "" {
				inv.AddPassword(password)
			}

			list, err := inv.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhum certificado encontrado.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, c := range list {
				status := "válido"
				if c.Expired {
					status = "EXPIRADO"
				}
				fmt.Fprintf(out, "%-30s %-10s vence %s", c.FileName, status, c.NotAfter.Format(time.DateOnly))
				if c.CNPJ != "" {
					fmt.Fprintf(out, "  CNPJ %s", c.CNPJ)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Certificate directory (defaults to the configured one)")
	cmd.Flags().StringVar(&password, "password", "", "Additional PFX password candidate")

	return cmd
}
