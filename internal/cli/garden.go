package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/garden"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

// gardenCommand creates the garden command group for saved words.
func (c *CLI) gardenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garden",
		Short: "Manage saved words",
		Long: `Manage saved words.

The garden keeps words worth revisiting. Entries live in the configured
backend (a YAML file by default) and also feed the HTTP API's garden
routes.`,
	}

	cmd.AddCommand(c.gardenListCommand())
	cmd.AddCommand(c.gardenAddCommand())
	cmd.AddCommand(c.gardenRemoveCommand())

	return cmd
}

// gardenListCommand creates the "garden list" subcommand.
func (c *CLI) gardenListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGardenList(cmd.Context())
		},
	}
}

func (c *CLI) runGardenList(ctx context.Context) error {
	store, err := c.newGarden(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("The garden is empty")
		printNextStep("Save a word", "etymon trace night --save")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			shortID(e.ID),
			e.Word,
			e.Language,
			e.Mode,
			formatRelativeTime(e.SavedAt),
			e.Notes,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Word", "Language", "Mode", "Saved", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return StyleValue
			}
			return StyleDim
		})
	fmt.Println(t.Render())

	return nil
}

// gardenAddCommand creates the "garden add" subcommand.
func (c *CLI) gardenAddCommand() *cobra.Command {
	var language, mode, notes string

	cmd := &cobra.Command{
		Use:   "add [word]",
		Short: "Save a word to the garden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "" {
				if err := pipeline.ValidateMode(mode); err != nil {
					return err
				}
			}
			return c.runGardenAdd(cmd.Context(), garden.NewEntry(args[0], language, mode, notes))
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language of the word form")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "preferred layout mode")
	cmd.Flags().StringVar(&notes, "notes", "", "notes to attach")

	return cmd
}

func (c *CLI) runGardenAdd(ctx context.Context, entry garden.Entry) error {
	if !entry.Valid() {
		return errors.New(errors.ErrCodeInvalidWord, "word is required")
	}

	store, err := c.newGarden(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, entry); err != nil {
		return err
	}
	printSuccess("Saved %q to the garden", entry.Word)
	return nil
}

// gardenRemoveCommand creates the "garden rm" subcommand.
func (c *CLI) gardenRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [word or id]",
		Aliases: []string{"remove"},
		Short:   "Remove a saved word",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGardenRemove(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runGardenRemove(ctx context.Context, key string) error {
	store, err := c.newGarden(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := findEntry(ctx, store, key)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, entry.ID); err != nil {
		return err
	}
	printSuccess("Removed %q from the garden", entry.Word)
	return nil
}

// findEntry resolves an ID, ID prefix, or word to a single entry.
func findEntry(ctx context.Context, store garden.Store, key string) (garden.Entry, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return garden.Entry{}, err
	}

	var matches []garden.Entry
	for _, e := range entries {
		if e.ID == key {
			return e, nil
		}
		if strings.HasPrefix(e.ID, key) || strings.EqualFold(e.Word, key) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return garden.Entry{}, garden.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return garden.Entry{}, errors.New(errors.ErrCodeInvalidInput, "%q matches %d entries, use an ID from 'etymon garden list'", key, len(matches))
	}
}

// shortID returns the first ID segment, enough to disambiguate in a list.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatRelativeTime renders a timestamp as a short age for table rows.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
