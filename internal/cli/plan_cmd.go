package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/cli/formatter"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage your plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(a),
		newPlanListCmd(a),
		newPlanShowCmd(a),
		newPlanBrowseCmd(a),
		newPlanCompleteCmd(a),
		newPlanCostCmd(a),
		newPlanDateCmd(a),
		newPlanShareCmd(a),
		newPlanUnshareCmd(a),
		newPlanDeleteCmd(a),
	)

	return cmd
}

func newPlanCreateCmd(a *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "create <experience>",
		Short: "Plan an experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expID, err := resolveExperienceID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			planned, err := parsePlannedDate(date)
			if err != nil {
				return err
			}
			plan, err := a.Plans.CreateFromExperience(cmd.Context(), app.CreatePlanRequest{
				ExperienceID: expID,
				Owner:        a.User,
				PlannedDate:  planned,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s with %d items\n", formatter.TruncID(plan.ID), len(plan.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Planned date (YYYY-MM-DD)")

	return cmd
}

func newPlanListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans you own or collaborate on",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.Plans.ListForUser(cmd.Context(), a.User)
			if err != nil {
				return err
			}
			exps, err := a.Experiences.List(cmd.Context())
			if err != nil {
				return err
			}
			names := make(map[domain.ID]string, len(exps))
			for _, e := range exps {
				names[e.ID] = e.Name
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, names))
			return nil
		},
	}
}

func newPlanShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan>",
		Short: "Show a plan with its progress and costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			view, err := a.Plans.View(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanView(view))
			return nil
		},
	}
}

func newPlanCompleteCmd(a *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <plan> <item>",
		Short: "Mark a plan item complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, itemID, err := loadPlanItem(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}
			complete := !undo
			plan, err = a.Plans.UpdateItem(cmd.Context(), app.UpdatePlanItemRequest{
				PlanID:   plan.ID,
				ItemID:   itemID,
				Actor:    a.User,
				Complete: &complete,
			})
			if err != nil {
				return err
			}
			item, _ := plan.FindItem(itemID)
			state := "complete"
			if undo {
				state = "not complete"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s %s\n",
				formatter.Bold(item.Text), state, formatter.RenderProgress(plan.CompletionPercentage(), 10))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the item not complete")

	return cmd
}

func newPlanCostCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cost <plan> <item> <amount>",
		Short: "Record the actual cost of a plan item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, itemID, err := loadPlanItem(cmd.Context(), a, args[0], args[1])
			if err != nil {
				return err
			}
			cost, err := parseMoney(args[2])
			if err != nil {
				return err
			}
			plan, err = a.Plans.UpdateItem(cmd.Context(), app.UpdatePlanItemRequest{
				PlanID: plan.ID,
				ItemID: itemID,
				Actor:  a.User,
				Cost:   &cost,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cost set to %s %s\n",
				formatter.Money(cost), formatter.Dim("(plan total "+formatter.Money(plan.TotalCost())+")"))
			return nil
		},
	}
}

func newPlanDateCmd(a *App) *cobra.Command {
	var clearDate bool

	cmd := &cobra.Command{
		Use:   "date <plan> [YYYY-MM-DD]",
		Short: "Set or clear a plan's planned date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearDate == (len(args) == 2) {
				return fmt.Errorf("pass either a date or --clear")
			}
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			var planned *time.Time
			if !clearDate {
				if planned, err = parsePlannedDate(args[1]); err != nil {
					return err
				}
			}
			plan, err := a.Plans.SetPlannedDate(cmd.Context(), id, a.User, planned)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned date: %s\n", formatter.HumanDate(plan.PlannedDate))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearDate, "clear", false, "Remove the planned date")

	return cmd
}

func newPlanShareCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share <plan> <user>",
		Short: "Add a collaborator to a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.Plans.AddCollaborator(cmd.Context(), id, a.User, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared plan %s with %s\n", formatter.TruncID(id), args[1])
			return nil
		},
	}
}

func newPlanUnshareCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unshare <plan> <user>",
		Short: "Remove a collaborator from a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.Plans.RemoveCollaborator(cmd.Context(), id, a.User, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from plan %s\n", args[1], formatter.TruncID(id))
			return nil
		},
	}
}

func newPlanDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <plan>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete this plan? [y/N]: ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.Plans.Delete(cmd.Context(), id, a.User); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func loadPlanItem(ctx context.Context, a *App, planInput, itemInput string) (*domain.Plan, domain.ID, error) {
	id, err := resolvePlanID(ctx, a, planInput)
	if err != nil {
		return nil, "", err
	}
	plan, err := a.Plans.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	ids := make([]domain.ID, len(plan.Items))
	for i, item := range plan.Items {
		ids[i] = item.ID
	}
	itemID, err := resolveItemID(ids, itemInput)
	if err != nil {
		return nil, "", err
	}
	return plan, itemID, nil
}

func parsePlannedDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if err := validateOptionalDate(s); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	t, _ := time.Parse("2006-01-02", s)
	return &t, nil
}
