package cli

import (
	"fmt"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/cli/formatter"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring a plan up to date with its experience",
	}

	cmd.AddCommand(
		newSyncCheckCmd(a),
		newSyncPreviewCmd(a),
		newSyncApplyCmd(a),
	)

	return cmd
}

func newSyncCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <plan>",
		Short: "Report whether a plan has diverged from its experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			report, err := a.Sync.CheckDivergence(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDivergence(report))
			return nil
		},
	}
}

func newSyncPreviewCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <plan>",
		Short: "Show the changes a sync would apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			preview, err := a.Sync.PreviewChangeset(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChangeset(preview))
			return nil
		},
	}
}

func newSyncApplyCmd(a *App) *cobra.Command {
	var all bool
	var added, removed, modified indexList
	var planVersion, experienceVersion int64

	cmd := &cobra.Command{
		Use:   "apply <plan>",
		Short: "Apply selected changes to a plan",
		Long: `Apply selected changes to a plan.

Indices refer to the numbered entries of 'sync preview'. Use --all to take
everything, or pick entries with --added, --removed and --modified. Index
flags need --plan-version and --experience-version as printed by the preview
the indices were read from; the apply is refused if either side has changed
since. Without any of these flags an interactive picker opens when attached
to a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			picked := len(added) > 0 || len(removed) > 0 || len(modified) > 0
			pinned := cmd.Flags().Changed("plan-version") && cmd.Flags().Changed("experience-version")
			partlyPinned := cmd.Flags().Changed("plan-version") != cmd.Flags().Changed("experience-version")
			if all && picked {
				return fmt.Errorf("--all cannot be combined with index flags")
			}
			if (picked && !pinned) || partlyPinned {
				return fmt.Errorf("index flags need --plan-version and --experience-version from 'sync preview'")
			}

			id, err := resolvePlanID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			preview, err := a.Sync.PreviewChangeset(cmd.Context(), id)
			if err != nil {
				return err
			}
			if pinned {
				preview.PlanVersion, preview.ExperienceVersion = planVersion, experienceVersion
			}
			if preview.Changes.IsEmpty() && !pinned {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Plan is in sync with its experience."))
				return nil
			}

			var sel reconcile.Selection
			switch {
			case all:
				sel = reconcile.SelectAll(preview.Changes)
			case picked:
				sel = reconcile.Selection{Added: added, Removed: removed, Modified: modified}
			case a.interactive():
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChangeset(preview))
				var keys []string
				if err := wizardSelectChanges(preview.Changes, &keys).Run(); err != nil {
					return err
				}
				if sel, err = selectionFromKeys(keys); err != nil {
					return err
				}
			default:
				return fmt.Errorf("nothing selected: pass --all or --added/--removed/--modified")
			}

			resp, err := a.Sync.ApplySync(cmd.Context(), app.ApplySyncRequest{
				PlanID:            preview.PlanID,
				Actor:             a.User,
				PlanVersion:       preview.PlanVersion,
				ExperienceVersion: preview.ExperienceVersion,
				Selection:         sel,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApplySync(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Apply every change")
	cmd.Flags().Var(&added, "added", "Indices of added items to apply (e.g. 0,2-3)")
	cmd.Flags().Var(&removed, "removed", "Indices of removed items to apply")
	cmd.Flags().Var(&modified, "modified", "Indices of modified items to apply")
	cmd.Flags().Int64Var(&planVersion, "plan-version", 0, "Plan version the indices were read at")
	cmd.Flags().Int64Var(&experienceVersion, "experience-version", 0, "Experience version the indices were read at")

	return cmd
}
