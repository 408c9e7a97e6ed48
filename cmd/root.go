package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tbracken/pantree/internal/config"
	"github.com/tbracken/pantree/internal/log"
	"github.com/tbracken/pantree/internal/pantry"
	"github.com/tbracken/pantree/internal/tracing"
	"github.com/tbracken/pantree/internal/ui"
	"github.com/tbracken/pantree/internal/ui/styles"
	"github.com/tbracken/pantree/internal/watcher"
)

const defaultConfigPath = ".pantree/config.yaml"

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "pantree",
	Short:   "A terminal pantry list backed by a binary search tree",
	Long:    `A terminal user interface for keeping a pantry list ordered by name or priority, with live tree traversal views.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/pantree/config.yaml)")
	rootCmd.Flags().StringP("ordering", "o", "",
		"initial ordering: name or priority (overrides config)")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging and the in-app log overlay (ctrl+x)")
	rootCmd.Flags().Bool("trace", false,
		"export store operation spans to a JSONL file")
	rootCmd.Flags().Bool("no-watch", false,
		"disable config auto-reload when the file changes")

	_ = viper.BindPFlag("ordering", rootCmd.Flags().Lookup("ordering"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("ordering", defaults.Ordering)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("ui.show_counts", defaults.UI.ShowCounts)
	viper.SetDefault("ui.show_priority", defaults.UI.ShowPriority)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("theme.success", defaults.Theme.Success)
	viper.SetDefault("trace.enabled", defaults.Trace.Enabled)
	viper.SetDefault("trace.exporter", defaults.Trace.Exporter)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .pantree/config.yaml (current directory)
		// 2. ~/.config/pantree/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "pantree"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .pantree/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.ValidateOrdering(cfg.Ordering); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if cfg.Debug {
		logPath := filepath.Join(filepath.Dir(configPath), "pantree.log")
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "config loaded", "path", configPath, "ordering", cfg.Ordering)
	}

	if err := styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	traceCfg := tracing.Config{
		Enabled:  cfg.Trace.Enabled,
		Exporter: cfg.Trace.Exporter,
		FilePath: cfg.Trace.FilePath,
	}
	if forceTrace, _ := cmd.Flags().GetBool("trace"); forceTrace {
		traceCfg.Enabled = true
	}
	if traceCfg.Enabled && traceCfg.FilePath == "" {
		traceCfg.FilePath = filepath.Join(filepath.Dir(configPath), "trace.jsonl")
	}
	provider, err := tracing.NewProvider(traceCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	store := pantry.NewStore(pantry.Ordering(cfg.Ordering))
	defer store.Close()
	if provider.Enabled() {
		store.SetTracer(provider.Tracer())
	}

	// Handle --no-watch flag (negated logic)
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.AutoReload = false
	}

	var reloadCh <-chan struct{}
	if cfg.AutoReload {
		if w, werr := watcher.New(watcher.DefaultConfig(configPath)); werr == nil {
			if ch, serr := w.Start(); serr == nil {
				reloadCh = ch
				defer func() { _ = w.Stop() }()
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are not fatal - the app works without auto-reload
	}

	model := ui.New(ui.Options{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
		Debug:      cfg.Debug,
		ReloadCh:   reloadCh,
		Reload:     reloadConfig,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// reloadConfig re-reads the config file currently in use.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return next, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
