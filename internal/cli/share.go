// Package cli provides network share commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/shares"
)

// newShareCmd creates the 'share' command group.
func newShareCmd() *cobra.Command {
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "Network share operations (roots, ls)",
		Long:  `Commands for inspecting the client-folder network share.`,
	}

	shareCmd.AddCommand(newShareRootsCmd())
	shareCmd.AddCommand(newShareLsCmd())

	return shareCmd
}

// newShareRootsCmd creates the 'share roots' command.
func newShareRootsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List the top-level client folders of the share",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			share := shares.NewShare(cfg.NetworkBasePath, GetLogger())
			names, err := share.ListNetworkFolders()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// newShareLsCmd creates the 'share ls' command.
func newShareLsCmd() *cobra.Command {
	var includeHidden bool
	var sortField string

	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "List a directory of the share",
		Long: `List a directory inside the configured share root. Paths outside
the root are refused.

Example:
  utildesk share ls '\\SRV-ADDS\Clientes$\Acme\2024'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			share := shares.NewShare(cfg.NetworkBasePath, GetLogger())

			opts := shares.DefaultListOptions()
			opts.IncludeHidden = includeHidden
			if sortField != "" {
				opts.SortField = sortField
			}

			entries, err := share.ListDirectory(args[0], opts)
			if err != nil {
				return err
			}
			for _, e := range entries {
				kind := "arquivo"
				if e.IsDir {
					kind = "pasta"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %12d  %s  %s\n", kind, e.SizeBytes, e.Modified, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "Include hidden entries")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort by name, size or modified")

	return cmd
}
