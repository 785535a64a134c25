package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/endpoint"
	"github.com/mesh-intelligence/todos/internal/service"
)

func newAddCmd(a *app) *cobra.Command {
	var showList bool
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := endpoint.AddPayload{Name: strings.Join(args, " ")}
			return a.mutate(cmd.Context(), endpoint.OpAdd, payload, showList, func(res endpoint.Result) error {
				if a.jsonMode {
					return writeJSON(a.stdout, res.Todo)
				}
				fmt.Fprintf(a.stdout, "Added %q (%s)\n", res.Todo.Name, res.Todo.ID)
				return nil
			})
		},
	}
	listFlag(cmd, &showList)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos with the completion tally",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}()

			view, err := s.endpoints.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.printList(view)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}()

			todo, err := s.service.Get(cmd.Context(), service.GetInput{ID: args[0]})
			if err != nil {
				return err
			}
			return a.printTodo(todo)
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var showList bool
	cmd := &cobra.Command{
		Use:   "edit <id> <name...>",
		Short: "Rename a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := endpoint.UpdatePayload{ID: args[0], Name: strings.Join(args[1:], " ")}
			return a.mutate(cmd.Context(), endpoint.OpUpdate, payload, showList, func(res endpoint.Result) error {
				if a.jsonMode {
					return writeJSON(a.stdout, res.Todo)
				}
				fmt.Fprintf(a.stdout, "Renamed %s to %q\n", res.Todo.ID, res.Todo.Name)
				return nil
			})
		},
	}
	listFlag(cmd, &showList)
	return cmd
}

// newDoneCmd builds "done" (complete=true) or "undone" (complete=false).
func newDoneCmd(a *app, complete bool) *cobra.Command {
	use, short := "done <id>", "Mark a todo complete"
	if !complete {
		use, short = "undone <id>", "Mark a todo not complete"
	}

	var showList bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.toggle(cmd, args[0], complete, showList)
		},
	}
	listFlag(cmd, &showList)
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	var (
		showList bool
		complete bool
	)
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Set or flip a todo's completion",
		Long: `Set the completion flag with --complete=true|false. Without --complete the
current value is flipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("complete") {
				current, err := a.currentCompletion(cmd, args[0])
				if err != nil {
					return err
				}
				complete = !current
			}
			return a.toggle(cmd, args[0], complete, showList)
		},
	}
	cmd.Flags().BoolVar(&complete, "complete", false, "completion value to set")
	listFlag(cmd, &showList)
	return cmd
}

func (a *app) currentCompletion(cmd *cobra.Command, id string) (complete bool, err error) {
	s, err := a.open()
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	todo, err := s.service.Get(cmd.Context(), service.GetInput{ID: id})
	if err != nil {
		return false, err
	}
	return todo.IsComplete, nil
}

func (a *app) toggle(cmd *cobra.Command, id string, complete, showList bool) error {
	payload := endpoint.TogglePayload{ID: id, IsComplete: complete}
	return a.mutate(cmd.Context(), endpoint.OpToggle, payload, showList, func(res endpoint.Result) error {
		if a.jsonMode {
			return writeJSON(a.stdout, res.Todo)
		}
		fmt.Fprintf(a.stdout, "%s %s\n", checkbox(res.Todo.IsComplete), res.Todo.Name)
		return nil
	})
}

func newDeleteCmd(a *app) *cobra.Command {
	var showList bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Long:    "Delete a todo. Deleting an id that does not exist succeeds.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := endpoint.DeletePayload{ID: args[0]}
			return a.mutate(cmd.Context(), endpoint.OpDelete, payload, showList, func(endpoint.Result) error {
				if a.jsonMode {
					return writeJSON(a.stdout, map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(a.stdout, "Deleted %s\n", args[0])
				return nil
			})
		},
	}
	listFlag(cmd, &showList)
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the starter todos to an empty list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}()

			n, err := s.service.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonMode {
				return writeJSON(a.stdout, map[string]int{"created": n})
			}
			if n == 0 {
				fmt.Fprintln(a.stdout, "List is not empty; nothing seeded.")
				return nil
			}
			fmt.Fprintf(a.stdout, "Seeded %d todos.\n", n)
			return nil
		},
	}
}
