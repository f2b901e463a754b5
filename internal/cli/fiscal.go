// Package cli provides CNPJ and NFe commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/fiscal"
)

// newCNPJCmd creates the 'cnpj' command group.
func newCNPJCmd() *cobra.Command {
	cnpjCmd := &cobra.Command{
		Use:   "cnpj",
		Short: "CNPJ operations (validate, lookup)",
	}

	cnpjCmd.AddCommand(newCNPJValidateCmd())
	cnpjCmd.AddCommand(newCNPJLookupCmd())

	return cnpjCmd
}

// newCNPJValidateCmd creates the 'cnpj validate' command.
func newCNPJValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cnpj>",
		Short: "Check a CNPJ's check digits locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fiscal.ValidateCNPJ(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CNPJ válido: %s\n", fiscal.FormatCNPJ(fiscal.DigitsOnly(args[0])))
			return nil
		},
	}
}

// newCNPJLookupCmd creates the 'cnpj lookup' command.
func newCNPJLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <cnpj>",
		Short: "Query the public registry for company data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := fiscal.NewCNPJClient(GetLogger())
			company, err := client.Lookup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CNPJ:          %s\n", fiscal.FormatCNPJ(fiscal.DigitsOnly(company.CNPJ)))
			fmt.Fprintf(out, "Razão social:  %s\n", company.LegalName)
			if company.TradeName != "" {
				fmt.Fprintf(out, "Nome fantasia: %s\n", company.TradeName)
			}
			fmt.Fprintf(out, "Situação:      %s\n", company.Status)
			if company.MainActivity != "" {
				fmt.Fprintf(out, "Atividade:     %s\n", company.MainActivity)
			}
			if company.City != "" {
				fmt.Fprintf(out, "Município:     %s/%s\n", company.City, company.State)
			}
			return nil
		},
	}
}

// newNfeCmd creates the 'nfe' command group.
func newNfeCmd() *cobra.Command {
	nfeCmd := &cobra.Command{
		Use:   "nfe",
		Short: "NFe operations (fetch DANFE by access key)",
	}

	nfeCmd.AddCommand(newNfeFetchCmd())

	return nfeCmd
}

// newNfeFetchCmd creates the 'nfe fetch' command.
func newNfeFetchCmd() *cobra.Command {
	var certPath string
	var password string

	cmd := &cobra.Command{
		Use:   "fetch <chave-de-acesso>",
		Short: "Fetch an NFe by its 44-digit access key and save the DANFE",
		Long: `Consult SEFAZ with an A1 certificate (e-CNPJ) and save the DANFE
as HTML in the Downloads folder.

Example:
  utildesk nfe fetch 3526031122233300018155001000012345100012345 \
    --cert ~/certs/empresa.pfx --password segredo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if certPath == "" {
				return fmt.Errorf("--cert is required")
			}

			client, cnpj, err := fiscal.NewNfeClient(certPath, password, GetLogger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Certificado carregado: %s\n", fiscal.FormatCNPJ(cnpj))

			data, err := client.Query(args[0], cnpj)
			if err != nil {
				return err
			}

			html, err := fiscal.GenerateDANFE(data)
			if err != nil {
				return err
			}
			tmpPath, err := fiscal.SaveDANFEToTemp(html)
			if err != nil {
				return err
			}
			finalPath, err := fiscal.DownloadDANFE(tmpPath, data.AccessKey)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NFe %s série %s de %s\n", data.Number, data.Series, data.Issuer.Name)
			fmt.Fprintf(out, "Total: R$ %s\n", data.Totals.TotalNfe)
			fmt.Fprintf(out, "DANFE salvo em %s\n", finalPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&certPath, "cert", "", "Path to the A1 PFX certificate")
	cmd.Flags().StringVar(&password, "password", "", "Certificate password")

	return cmd
}
