package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/items/internal/api"
	"github.com/Makepad-fr/items/internal/model"
	"github.com/Makepad-fr/items/internal/ui"
	"github.com/Makepad-fr/items/internal/viewmodel"
)

// -------------- subcommands ----------------

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.vm.Load(cmd.Context()); err != nil {
				return fail(ExitError, "%s", a.vm.Status().Err())
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(a.vm.Items()); err != nil {
					return fail(ExitError, "ls: %v", err)
				}
				return nil
			}
			lines := ui.Render(a.vm.Snapshot())
			lines = append(lines, "", ui.C(ui.Current().Muted, "Tip: add with `items add \"Book\" -d \"Sci-fi\"`"))
			fmt.Fprintln(out, ui.Panel(lines))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var desc string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create an item (name can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// a create does not depend on the listing; the failure is logged
			_ = a.vm.Load(cmd.Context())
			a.vm.SetDraft(model.Draft{Name: strings.Join(args, " "), Description: desc})
			it, err := a.vm.Create(cmd.Context())
			switch {
			case errors.Is(err, viewmodel.ErrNameRequired):
				return fail(ExitUsage, "add: %s", a.vm.Status().Err())
			case err != nil:
				return fail(ExitError, "%s", a.vm.Status().Err())
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q (id %s)", it.Name, it.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&desc, "description", "d", "", "item description")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id | #index>",
		Aliases: []string{"delete"},
		Short:   "Delete an item by id, or by 1-based position as #N",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// only #N needs the listing; a plain id goes straight to the API
			if err := a.vm.Load(cmd.Context()); err != nil && strings.HasPrefix(strings.TrimSpace(args[0]), "#") {
				return fail(ExitError, "%s", a.vm.Status().Err())
			}
			id, err := resolveID(a.vm.Items(), args[0])
			if err != nil {
				ui.Fail(cmd.ErrOrStderr(), err.Error())
				fmt.Fprintln(cmd.ErrOrStderr(), ui.C(ui.Current().Muted, "Hint: run `items ls` to see ids and positions"))
				return &exitError{code: ExitUsage}
			}
			if err := a.vm.Delete(cmd.Context(), id); err != nil {
				ui.Fail(cmd.ErrOrStderr(), a.vm.Status().Err())
				if api.IsNotFound(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), ui.C(ui.Current().Muted, "Hint: run `items ls` to see ids and positions"))
				}
				return &exitError{code: ExitError}
			}
			ui.OK(cmd.OutOrStdout(), "removed "+id)
			return nil
		},
	}
}

// resolveID maps "#N" to the id of the N-th item; anything else is an id.
func resolveID(items []model.Item, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("rm: empty id")
	}
	if !strings.HasPrefix(arg, "#") {
		return arg, nil
	}
	n, err := strconv.Atoi(arg[1:])
	if err != nil {
		return "", fmt.Errorf("rm: not a number: %s", arg[1:])
	}
	if n < 1 || n > len(items) {
		return "", fmt.Errorf("index out of range: have %d, got %d", len(items), n)
	}
	return items[n-1].ID, nil
}
