package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/cli/formatter"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
	"github.com/spf13/cobra"
)

func newExperienceCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experience",
		Aliases: []string{"exp"},
		Short:   "Manage experiences and their plan items",
	}

	cmd.AddCommand(
		newExperienceCreateCmd(a),
		newExperienceListCmd(a),
		newExperienceShowCmd(a),
		newExperienceRenameCmd(a),
		newExperienceAddItemCmd(a),
		newExperienceUpdateItemCmd(a),
		newExperienceRemoveItemCmd(a),
		newExperienceImportCmd(a),
		newExperienceExportCmd(a),
		newExperienceDeleteCmd(a),
	)

	return cmd
}

func newExperienceCreateCmd(a *App) *cobra.Command {
	var name, destination string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty experience",
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.Experiences.Create(cmd.Context(), app.CreateExperienceRequest{
				Name:        name,
				Destination: destination,
				Owner:       a.User,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created experience %s %s\n", formatter.Bold(exp.Name), formatter.TruncID(exp.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Experience name")
	cmd.Flags().StringVar(&destination, "destination", "", "Destination")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newExperienceListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List experiences",
		RunE: func(cmd *cobra.Command, args []string) error {
			exps, err := a.Experiences.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExperienceList(exps))
			return nil
		},
	}
}

func newExperienceShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <experience>",
		Short: "Show an experience and its item tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExperience(exp))
			return nil
		},
	}
}

func newExperienceRenameCmd(a *App) *cobra.Command {
	var name, destination string

	cmd := &cobra.Command{
		Use:   "update <experience>",
		Short: "Change an experience's name or destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = exp.Name
			}
			if !cmd.Flags().Changed("destination") {
				destination = exp.Destination
			}
			exp, err = a.Experiences.UpdateDetails(cmd.Context(), exp.ID, a.User, name, destination)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated experience %s (v%d)\n", formatter.Bold(exp.Name), exp.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&destination, "destination", "", "New destination")

	return cmd
}

func newExperienceAddItemCmd(a *App) *cobra.Command {
	var text, url, cost, photo, parent string
	var days int

	cmd := &cobra.Command{
		Use:   "add-item <experience>",
		Short: "Add a plan item to an experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			req := app.AddTemplateItemRequest{
				ExperienceID: exp.ID,
				Actor:        a.User,
				Text:         text,
				URL:          url,
				PlanningDays: days,
				Photo:        domain.ParseID(photo),
			}
			if cost != "" {
				if req.CostEstimate, err = parseMoney(cost); err != nil {
					return err
				}
			}
			if parent != "" {
				if req.Parent, err = resolveItemID(templateIDs(exp), parent); err != nil {
					return err
				}
			}
			item, err := a.Experiences.AddItem(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s\n", formatter.Bold(item.Text), formatter.TruncID(item.ID), exp.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Item text")
	cmd.Flags().StringVar(&url, "url", "", "Reference URL")
	cmd.Flags().StringVar(&cost, "cost", "", "Cost estimate (e.g. 120.50)")
	cmd.Flags().IntVar(&days, "days", 0, "Planning lead time in days")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo ID")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item (# or ID)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newExperienceUpdateItemCmd(a *App) *cobra.Command {
	var text, url, cost, photo, parent string
	var days int

	cmd := &cobra.Command{
		Use:   "update-item <experience> <item>",
		Short: "Edit a plan item of an experience",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(templateIDs(exp), args[1])
			if err != nil {
				return err
			}

			req := app.UpdateTemplateItemRequest{ExperienceID: exp.ID, ItemID: itemID, Actor: a.User}
			flags := cmd.Flags()
			if flags.Changed("text") {
				req.Text = &text
			}
			if flags.Changed("url") {
				req.URL = &url
			}
			if flags.Changed("cost") {
				d, err := parseMoney(cost)
				if err != nil {
					return err
				}
				req.CostEstimate = &d
			}
			if flags.Changed("days") {
				req.PlanningDays = &days
			}
			if flags.Changed("photo") {
				id := domain.ParseID(photo)
				req.Photo = &id
			}
			if flags.Changed("parent") {
				var id domain.ID
				if parent != "" {
					if id, err = resolveItemID(templateIDs(exp), parent); err != nil {
						return err
					}
				}
				req.Parent = &id
			}

			item, err := a.Experiences.UpdateItem(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.Bold(item.Text), formatter.TruncID(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Item text")
	cmd.Flags().StringVar(&url, "url", "", "Reference URL")
	cmd.Flags().StringVar(&cost, "cost", "", "Cost estimate")
	cmd.Flags().IntVar(&days, "days", 0, "Planning lead time in days")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo ID")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item (# or ID); empty makes it top-level")

	return cmd
}

func newExperienceRemoveItemCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <experience> <item>",
		Short: "Remove a plan item and its children from an experience",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(templateIDs(exp), args[1])
			if err != nil {
				return err
			}
			removed, err := a.Experiences.RemoveItem(cmd.Context(), exp.ID, itemID, a.User)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s) from %s\n", len(removed), exp.Name)
			return nil
		},
	}
}

func newExperienceImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an experience from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.Import.ImportExperience(cmd.Context(), args[0], a.User)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s with %d items\n",
				formatter.Bold(result.Experience.Name), formatter.TruncID(result.Experience.ID), result.ItemCount)
			return nil
		},
	}
}

func newExperienceExportCmd(a *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <experience>",
		Short: "Export an experience in import-file format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveExperienceID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			f := importer.Format(strings.ToLower(format))
			if output != "" && !cmd.Flags().Changed("format") {
				f = importer.FormatFromPath(output)
			}
			data, err := a.Import.ExportExperience(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(importer.FormatYAML), "Output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func newExperienceDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <experience>",
		Short: "Delete an experience and every plan made from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := loadExperience(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Delete %q and all its plans? [y/N]: ", exp.Name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.Experiences.Delete(cmd.Context(), exp.ID, a.User); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted experience %s\n", exp.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func loadExperience(ctx context.Context, a *App, input string) (*domain.Experience, error) {
	id, err := resolveExperienceID(ctx, a, input)
	if err != nil {
		return nil, err
	}
	return a.Experiences.GetByID(ctx, id)
}

func templateIDs(exp *domain.Experience) []domain.ID {
	ids := make([]domain.ID, len(exp.Items))
	for i, item := range exp.Items {
		ids[i] = item.ID
	}
	return ids
}
