// Package cli provides todo-list commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utildesk/utildesk/internal/tasks"
)

// newTasksCmd creates the 'tasks' command group.
func newTasksCmd() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Todo list (list, add, done, remove)",
	}

	tasksCmd.AddCommand(newTasksListCmd())
	tasksCmd.AddCommand(newTasksAddCmd())
	tasksCmd.AddCommand(newTasksDoneCmd())
	tasksCmd.AddCommand(newTasksRemoveCmd())

	return tasksCmd
}

// newTasksListCmd creates the 'tasks list' command.
func newTasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			todos, err := tasks.NewService(st, nil).List()
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma tarefa.")
				return nil
			}
			for _, t := range todos {
				mark := " "
				if t.Done {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  [%s] %s\n", t.ID, mark, t.Title)
			}
			return nil
		},
	}
}

// newTasksAddCmd creates the 'tasks add' command.
func newTasksAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <título>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			title := args[0]
			for _, extra := range args[1:] {
				title += " " + extra
			}
			todo, err := tasks.NewService(st, nil).Add(title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tarefa criada: %d  %s\n", todo.ID, todo.Title)
			return nil
		},
	}
}

// newTasksDoneCmd creates the 'tasks done' command.
func newTasksDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo completed",
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

			return tasks.NewService(st, nil).SetDone(id, !undo)
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark pending instead")

	return cmd
}

// newTasksRemoveCmd creates the 'tasks remove' command.
func newTasksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a todo",
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

			return tasks.NewService(st, nil).Delete(id)
		},
	}
}
