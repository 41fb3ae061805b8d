package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
	"github.com/yasinhessnawi1/Toolkit_Backend/scripts"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the user profile",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd.OutOrStdout(), c.state.Profile().Get(ctx(cmd)))
			},
		},
		&cobra.Command{
			Use:   "set <field> <value>",
			Short: "Change one profile field",
			Long: `Change one profile field.

Fields: name, email, avatar, location, timezone, bio, joinedDate`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				profile, err := c.state.Profile().Set(ctx(cmd), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), profile)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				profile, err := c.state.Profile().Reset(ctx(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), profile)
			},
		},
	)
	return cmd
}

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or edit the user settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd.OutOrStdout(), c.state.Settings().Get(ctx(cmd)))
			},
		},
		&cobra.Command{
			Use:   "set <field> <value>",
			Short: "Change one setting",
			Long: `Change one setting. Toggles take true or false, language takes a tag such as en or pt-BR.

Fields: darkMode, highContrast, emailUpdates, browserAlerts, twoFactorAuth, publicProfile, language`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := c.state.Settings().Set(ctx(cmd), args[0], settingValue(args[0], args[1]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), settings)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				settings, err := c.state.Settings().Reset(ctx(cmd))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), settings)
			},
		},
	)
	return cmd
}

// settingValue converts a command-line value to the type the setting expects
func settingValue(field, raw string) any {
	if field == constants.FieldLanguage {
		return raw
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func (c *cli) favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List or edit favorite tools",
	}

	printList := func(cmd *cobra.Command) error {
		return printJSON(cmd.OutOrStdout(), models.FavoritesList{Favorites: c.state.Favorites().List(ctx(cmd))})
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the favorite tool IDs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printList(cmd)
			},
		},
		&cobra.Command{
			Use:   "add <toolId>",
			Short: "Mark a tool as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.state.Favorites().Add(ctx(cmd), args[0]); err != nil {
					return err
				}
				return printList(cmd)
			},
		},
		&cobra.Command{
			Use:   "remove <toolId>",
			Short: "Unmark a favorite tool",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.state.Favorites().Remove(ctx(cmd), args[0]); err != nil {
					return err
				}
				return printList(cmd)
			},
		},
		&cobra.Command{
			Use:   "toggle <toolId>",
			Short: "Flip the favorite state of a tool",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				favorite, err := c.state.Favorites().Toggle(ctx(cmd), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), models.FavoriteStatus{ToolID: args[0], Favorite: favorite})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every favorite",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.state.Favorites().Clear(ctx(cmd)); err != nil {
					return err
				}
				return printList(cmd)
			},
		},
	)
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or edit the tool visit history",
	}

	var (
		limit  int
		within time.Duration
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print history entries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history := c.state.History()
			var entries []models.HistoryEntry
			switch {
			case within > 0:
				entries = history.Since(ctx(cmd), within)
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
			case limit > 0:
				entries = history.Recent(ctx(cmd), limit)
			default:
				entries = history.List(ctx(cmd))
			}
			if entries == nil {
				entries = []models.HistoryEntry{}
			}
			return printJSON(cmd.OutOrStdout(), models.HistoryList{History: entries, Count: len(entries)})
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only the N most recent entries")
	listCmd.Flags().DurationVar(&within, "within", 0, "Only entries newer than this, e.g. 24h")

	var visit models.ToolVisit
	addCmd := &cobra.Command{
		Use:   "add <toolId>",
		Short: "Record a visit of a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := visit
			v.ToolID = args[0]
			if v.ToolName == "" {
				v.ToolName = args[0]
			}
			if v.ToolSlug == "" {
				v.ToolSlug = args[0]
			}
			entry, err := c.state.History().Append(ctx(cmd), v)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}
	addCmd.Flags().StringVar(&visit.ToolName, "name", "", "Display name of the tool")
	addCmd.Flags().StringVar(&visit.ToolSlug, "slug", "", "URL slug of the tool")
	addCmd.Flags().StringVar(&visit.ToolIcon, "icon", "", "Icon name of the tool")
	addCmd.Flags().StringVar(&visit.ToolCategory, "category", "", "Category of the tool")

	cmd.AddCommand(
		listCmd,
		addCmd,
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every history entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.state.History().Clear(ctx(cmd))
			},
		},
	)
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every entity as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.state.ExportAll(ctx(cmd))
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported user state to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore entities from an export document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}
			if err := c.state.ImportAll(ctx(cmd), data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), constants.MsgStateImported)
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write demo state into keys that are still empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			executed, err := scripts.NewSeeder(c.repo, c.state).SeedState(ctx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Applied %s\n", utils.Plural(len(executed), "seed"))
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"seeded": executed})
		},
	}
}
