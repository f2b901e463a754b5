// Package cli provides saved-folder registry commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/explorer"
)

// newFoldersCmd creates the 'folders' command group.
func newFoldersCmd() *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "Saved folder registry (list, add, remove)",
		Long:  `Commands for managing the saved client folders shown in the explorer list view.`,
	}

	foldersCmd.AddCommand(newFoldersListCmd())
	foldersCmd.AddCommand(newFoldersAddCmd())
	foldersCmd.AddCommand(newFoldersRemoveCmd())

	return foldersCmd
}

// newFoldersListCmd creates the 'folders list' command.
func newFoldersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			folders, err := explorer.NewRegistry(st, nil).List()
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma pasta salva.")
				return nil
			}
			for _, f := range folders {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-30s %s\n", f.ID, f.Name, f.Path)
			}
			return nil
		},
	}
}

// newFoldersAddCmd creates the 'folders add' command.
func newFoldersAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Save a client folder",
		Long: `Save a client folder so it appears in the explorer list view.
The display name defaults to the folder's base name.

Example:
  utildesk folders add '\\SRV-ADDS\Clientes$\Acme' --name "Acme Ltda"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			display := name
			if display == "" {
				display = baseNameOf(args[0])
			}
			folder, err := explorer.NewRegistry(st, nil).Add(display, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pasta salva: %d  %s\n", folder.ID, folder.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the folder name)")

	return cmd
}

// newFoldersRemoveCmd creates the 'folders remove' command.
func newFoldersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a saved folder (the directory itself is untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %s", args[0])
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := explorer.NewRegistry(st, nil).Remove(id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pasta removida do registro.")
			return nil
		},
	}
}

// baseNameOf returns the last segment of a path in either separator
// convention.
func baseNameOf(path string) string {
	last := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			last = path[i+1:]
			break
		}
	}
	if last == "" {
		return path
	}
	return last
}
