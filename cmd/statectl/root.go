package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/service"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// cli holds the flags and the opened medium shared by every subcommand
type cli struct {
	configPath string
	driver     string
	filePath   string
	verbose    bool

	repo  repository.StateRepository
	state *service.UserStateService
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "statectl",
		Short: "Inspect and edit toolkit user state",
		Long: `statectl reads and writes the profile, settings, favorites and tool
history stored by the Toolkit API Server.

It opens the storage medium named in the configuration file, so it
must not be pointed at an in-memory server.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "./configs/config.yaml", "Path to configuration file (.yaml or .toml)")
	root.PersistentFlags().StringVar(&c.driver, "storage", "", "Override the storage driver (file, sqlite, mysql, postgres)")
	root.PersistentFlags().StringVar(&c.filePath, "file", "", "Override the state file path for the file driver")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.profileCmd(),
		c.settingsCmd(),
		c.favoritesCmd(),
		c.historyCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.seedCmd(),
	)
	return root
}

// open loads the configuration and opens the medium before any subcommand runs
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.driver != "" {
		cfg.Storage.Driver = c.driver
	}
	if c.filePath != "" {
		cfg.Storage.FilePath = c.filePath
	}

	cfg.Logging.Level = "warn"
	utils.InitLoggerWithWriter(cfg, cmd.ErrOrStderr())
	if c.verbose {
		if err := utils.SetLogLevel("debug"); err != nil {
			return err
		}
	}
	utils.InitValidator()

	repo, err := repository.Open(ctx(cmd), cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	c.repo = repo
	c.state = service.NewUserStateService(repo)
	return nil
}

func (c *cli) close(_ *cobra.Command, _ []string) error {
	if c.repo == nil {
		return nil
	}
	err := c.repo.Close()
	c.repo = nil
	return err
}

// ctx returns the command context, falling back to Background for direct calls
func ctx(cmd *cobra.Command) context.Context {
	if cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// printJSON writes v as indented JSON
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
