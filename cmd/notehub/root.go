package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/app"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/logging"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/styles"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// cli holds the global flags and what PersistentPreRunE builds from them.
type cli struct {
	configPath string
	debug      bool
	logFile    string

	cfg     *config.Config
	logger  *slog.Logger
	logSink io.Closer

	// httpClient replaces the client's transport in tests.
	httpClient *http.Client
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notehub",
		Short: "Browse and manage NoteHub notes from the terminal",
		Long: `notehub is a terminal client for the NoteHub notes service.
Run it without a subcommand to open the interactive browser, or use
the subcommands below for scripting.

The API token is read from NOTEHUB_TOKEN (a .env file in the working
directory is honoured) or from api.token in the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd, cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config file (default ~/.config/notehub/config.json)")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")
	flags.StringVar(&c.logFile, "log-file", "", "log file for the interactive browser (overrides log.file)")

	cmd.AddCommand(
		newListCmd(c),
		newCreateCmd(c),
		newDeleteCmd(c),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the config and builds the logger. The interactive browser
// owns the terminal, so it logs to a file; everything else logs to stderr.
func (c *cli) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg

	level := cfg.Log.Level
	if c.debug {
		level = "debug"
	}

	if interactive {
		path := cfg.Log.File
		if c.logFile != "" {
			path = config.ExpandPath(c.logFile)
		}
		logger, f, err := logging.OpenFile(path, level, cfg.Log.Pretty)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		c.logger, c.logSink = logger, f
	} else {
		stderr := cmd.ErrOrStderr()
		logger, err := logging.New(stderr, level, cfg.Log.Pretty, isTerminal(stderr))
		if err != nil {
			return err
		}
		c.logger = logger
	}
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) close() {
	if c.logSink != nil {
		c.logSink.Close()
		c.logSink = nil
	}
}

// client builds the API gateway from the loaded config.
func (c *cli) client() (*notehub.Client, error) {
	if c.cfg.API.Token == "" {
		return nil, errors.New("no API token: set NOTEHUB_TOKEN or api.token in " + c.configFile())
	}
	opts := []notehub.Option{notehub.WithLogger(c.logger)}
	if c.httpClient != nil {
		opts = append(opts, notehub.WithHTTPClient(c.httpClient))
	}
	return notehub.New(notehub.Config{
		BaseURL: c.cfg.API.BaseURL,
		Token:   c.cfg.API.Token,
		PerPage: c.cfg.API.PerPage,
		Timeout: c.cfg.API.Timeout,
	}, opts...)
}

func (c *cli) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.ConfigPath()
}

func (c *cli) runTUI(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}

	theme := c.cfg.UI.Theme
	if !styles.IsValidTheme(theme.Name) {
		c.logger.Warn("unknown theme, using default", "theme", theme.Name, "available", styles.ListThemes())
	}
	if err := styles.ApplyThemeWithOverrides(theme.Name, theme.Overrides); err != nil {
		c.logger.Warn("ignoring theme overrides", "err", err)
	}

	path := c.configFile()
	opts := app.Options{
		Service: client,
		Config:  c.cfg,
		Logger:  c.logger,
		SavePreview: func(show bool) error {
			return config.SavePreviewTo(path, show)
		},
	}
	if changes, watcher, err := config.Watch(path, config.DefaultWatchDelay); err != nil {
		c.logger.Debug("not watching config", "path", path, "err", err)
	} else {
		defer watcher.Close()
		opts.ConfigChanges = changes
		opts.ReloadConfig = func() (*config.Config, error) {
			return loadConfig(c.configPath)
		}
	}
	model := app.New(opts)

	c.logger.Info("starting", "version", effectiveVersion(), "baseURL", c.cfg.API.BaseURL)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(f.Fd())
}
