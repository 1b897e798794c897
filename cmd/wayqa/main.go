package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/studiowebux/wayqa/internal/analytics"
	"github.com/studiowebux/wayqa/internal/cli"
	"github.com/studiowebux/wayqa/internal/config"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/history"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/logging"
	"github.com/studiowebux/wayqa/internal/state"
	"github.com/studiowebux/wayqa/internal/tui"
	"github.com/studiowebux/wayqa/internal/types"
	"github.com/studiowebux/wayqa/internal/version"
)

var (
	appVersion = "0.1.0"
)

// updateCheckTimeout bounds the release lookup
const updateCheckTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// the response was already printed
		if !errors.Is(err, cli.ErrRequestFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wayqa [url]",
	Short: "WAYQA - terminal HTTP request composer",
	Long: `WAYQA composes and sends HTTP requests from an interactive TUI.

Run without arguments to start the TUI, optionally seeding the URL and
method. Use 'send' to execute one request without the TUI.

Examples:
  wayqa                                   # Start interactive TUI
  wayqa https://api.example.com/users     # Start with a URL
  wayqa -X POST https://api.example.com   # Start with a method and URL
  wayqa send https://api.example.com -q 'items[0].name'
  wayqa history --limit 20`,
	Version:       appVersion,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		return runTUI(cmd, url)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <url>",
	Short: "Send one request and print the response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend(cmd, args[0])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent executions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryClear(cmd)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete history entries by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryDelete(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded executions per method and URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryStats(cmd)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage keybinds.json",
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the default keybindings to keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsExport(cmd)
	},
}

var keybindsListCmd = &cobra.Command{
	Use:   "list [context]",
	Short: "List active keybindings, optionally for one context",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsList(cmd, args)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings.yaml",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to settings.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsCheck(cmd)
	},
}

// Global flags
var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
	flagTimeout  time.Duration
	flagInsecure bool
)

// Flags for root/send
var (
	flagMethod      string
	flagOutput      string
	flagQuery       string
	flagNoHistory   bool
	flagShowHeaders bool
)

// Flags for history
var (
	flagHistoryLimit  int
	flagHistoryOutput string
)

// Flags for version
var flagCheck bool

// Flags for keybinds export/list and config init
var (
	flagStdout      bool
	flagForce       bool
	flagListOutput  string
	flagConfigForce bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default ~/.wayqa/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the TUI runs")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Request timeout (e.g. 10s)")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")

	rootCmd.Flags().StringVarP(&flagMethod, "method", "X", "GET", "Initial HTTP method")

	sendCmd.Flags().StringVarP(&flagMethod, "method", "X", "GET", "HTTP method")
	sendCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/body/json/yaml)")
	sendCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query applied to JSON bodies")
	sendCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record this execution")
	sendCmd.Flags().BoolVarP(&flagShowHeaders, "headers", "H", false, "Show response headers")

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "text", "Output format (text/json/yaml)")

	keybindsExportCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print instead of writing the file")
	keybindsExportCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds.json")

	keybindsListCmd.Flags().StringVarP(&flagListOutput, "output", "o", "text", "Output format (text/json/yaml)")

	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing settings file")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	historyStatsCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "text", "Output format (text/json/yaml)")

	historyCmd.AddCommand(historyClearCmd, historyDeleteCmd, historyStatsCmd)
	keybindsCmd.AddCommand(keybindsExportCmd, keybindsListCmd, keybindsCheckCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(sendCmd, historyCmd, keybindsCmd, configCmd, versionCmd)
}

// loadSettings initializes the config directory and applies flag and
// environment overrides on top of settings.yaml
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	if err := config.Initialize(); err != nil {
		return config.Settings{}, fmt.Errorf("failed to initialize config: %w", err)
	}

	path := config.SettingsFile
	if flagConfig != "" {
		path = flagConfig
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		settings.Request.Timeout = flagTimeout
	}
	if flags.Changed("insecure") {
		settings.Request.TLS.InsecureSkipVerify = flagInsecure
	}
	if flagLogLevel != "" {
		settings.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		settings.Log.File = flagLogFile
	}
	if os.Getenv(config.EnvDebug) != "" {
		settings.Log.Level = "debug"
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func parseMethod(name string) (types.Method, error) {
	method, ok := types.ParseMethod(name)
	if !ok {
		return method, fmt.Errorf("unsupported method %q", name)
	}
	return method, nil
}

// openHistory returns nil when history is disabled
func openHistory(settings config.Settings, logger *log.Logger) (*history.Manager, error) {
	mgr, err := history.Open(config.DatabasePath, settings.History.Enabled, settings.History.Limit)
	if errors.Is(err, history.ErrDisabled) {
		logger.Debug("history disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return mgr, nil
}

func newExecutor(settings config.Settings, logger *log.Logger, hist *history.Manager) (*executor.Executor, error) {
	tls := settings.Request.TLS
	sender, err := executor.NewHTTPSender(executor.HTTPOptions{
		Timeout:         settings.Request.Timeout,
		FollowRedirects: settings.Request.FollowRedirects,
		TLS:             &tls,
	})
	if err != nil {
		return nil, err
	}

	opts := []executor.Option{executor.WithLogger(logger)}
	if hist != nil {
		opts = append(opts, executor.WithRecorder(hist))
	}
	return executor.New(sender, opts...), nil
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command, url string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	method, err := parseMethod(flagMethod)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	logger, logCloser, err := logging.OpenFile(settings.LogPath(), settings.Log.Level)
	if err != nil {
		return err
	}
	closers := []io.Closer{logCloser}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		logCloser.Close()
		return err
	}
	if result := keybinds.NewValidator().ValidateRegistry(registry); result.HasWarnings() {
		for _, w := range result.Warnings {
			logger.Warn("keybinding", "context", w.Context, "key", w.Key, "msg", w.Message)
		}
	}

	hist, err := openHistory(settings, logger)
	if err != nil {
		logCloser.Close()
		return err
	}

	// stats are read from the history table, so they need it enabled
	var stats tui.StatsSource
	if hist != nil {
		// closed before the log file
		closers = append([]io.Closer{hist}, closers...)

		mgr, err := analytics.NewManager(config.DatabasePath)
		if err != nil {
			logger.Warn("history stats unavailable", "err", err)
		} else {
			closers = append([]io.Closer{mgr}, closers...)
			stats = mgr
		}
	}

	exec, err := newExecutor(settings, logger, hist)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return err
	}

	st := state.New(state.Options{
		Registry: registry,
		Executor: exec,
		Logger:   logger,
		Context:  cmd.Context(),
		Project:  settings.UI.Project,
		Method:   method,
		URL:      url,
	})

	logger.Info("starting", "version", appVersion)
	return tui.Run(tui.New(st, tui.Options{
		TickInterval: settings.UI.TickInterval,
		Settings:     settings,
		Logger:       logger,
		Closers:      closers,
		Stats:        stats,
	}))
}

// runSend executes one request in CLI mode
func runSend(cmd *cobra.Command, url string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	method, err := parseMethod(flagMethod)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, settings.Log.Level)
	if err != nil {
		return err
	}

	var hist *history.Manager
	if !flagNoHistory {
		if hist, err = openHistory(settings, logger); err != nil {
			return err
		}
	}
	if hist != nil {
		defer hist.Close()
	}

	exec, err := newExecutor(settings, logger, hist)
	if err != nil {
		return err
	}

	output := flagOutput
	if output == "" {
		output = cli.DetectFormat(os.Stdout)
	}

	return cli.Send(cmd.Context(), exec, cli.SendOptions{
		Request:      types.Request{Method: method, URL: url},
		OutputFormat: output,
		Query:        flagQuery,
		ShowHeaders:  flagShowHeaders,
		Color:        cli.IsTerminal(os.Stdout),
	}, os.Stdout)
}

func openHistoryForCommand(cmd *cobra.Command) (*history.Manager, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, settings.Log.Level)
	if err != nil {
		return nil, err
	}

	// Listing works even when recording is turned off
	settings.History.Enabled = true
	return openHistory(settings, logger)
}

// runHistory prints recent executions
func runHistory(cmd *cobra.Command) error {
	hist, err := openHistoryForCommand(cmd)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.List(flagHistoryLimit)
	if err != nil {
		return err
	}

	out, err := cli.FormatHistory(entries, flagHistoryOutput)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runHistoryClear(cmd *cobra.Command) error {
	hist, err := openHistoryForCommand(cmd)
	if err != nil {
		return err
	}
	defer hist.Close()

	count, err := hist.Count()
	if err != nil {
		return err
	}
	if err := hist.Clear(); err != nil {
		return err
	}
	fmt.Printf("Deleted %d history entries\n", count)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid history ID %q", arg)
		}
		ids = append(ids, id)
	}

	hist, err := openHistoryForCommand(cmd)
	if err != nil {
		return err
	}
	defer hist.Close()

	for _, id := range ids {
		if err := hist.Delete(id); err != nil {
			return err
		}
	}
	fmt.Printf("Deleted %d history entries\n", len(ids))
	return nil
}

// runHistoryStats prints per-URL statistics
func runHistoryStats(cmd *cobra.Command) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}

	mgr, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()

	stats, err := mgr.GetStatsPerURL()
	if err != nil {
		return err
	}

	out, err := cli.FormatStats(stats, flagHistoryOutput)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// runKeybindsExport writes the default bindings so users can edit them
func runKeybindsExport(cmd *cobra.Command) error {
	defaults := keybinds.ExportDefaults()

	if flagStdout {
		data, err := json.MarshalIndent(defaults, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode keybinds: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	if _, err := os.Stat(config.KeybindsFile); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
	}
	if err := keybinds.SaveConfig(defaults, config.KeybindsFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", config.KeybindsFile)
	return nil
}

// runKeybindsList prints the bindings in effect after keybinds.json is
// applied. Without a context every context is listed once.
func runKeybindsList(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	var bindings []keybinds.Binding
	if len(args) == 1 {
		kc, err := keybinds.ParseContext(args[0])
		if err != nil {
			return err
		}
		bindings = registry.ListBindings(kc)
	} else {
		for _, kc := range keybinds.Contexts {
			for _, b := range registry.ListBindings(kc) {
				if b.Context == kc {
					bindings = append(bindings, b)
				}
			}
		}
	}

	out, err := cli.FormatBindings(bindings, flagListOutput)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// runConfigInit writes the default settings so users can edit them
func runConfigInit(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	path := config.SettingsFile
	if flagConfig != "" {
		path = flagConfig
	}
	if _, err := os.Stat(path); err == nil && !flagConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveSettings(config.DefaultSettings(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// runKeybindsCheck validates keybinds.json against the defaults
func runKeybindsCheck(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if _, err := os.Stat(config.KeybindsFile); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("No %s, using default keybindings\n", config.KeybindsFile)
		return nil
	}

	cfg, err := keybinds.LoadConfig(config.KeybindsFile)
	if err != nil {
		return err
	}

	result := keybinds.NewValidator().ValidateConfig(cfg)
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Println("keybinds.json is valid")
		return nil
	}

	fmt.Print(strings.TrimRight(result.String(), "\n") + "\n")
	if result.HasErrors() {
		return fmt.Errorf("keybinds.json has %d error(s)", len(result.Errors))
	}
	return nil
}

// runVersion prints the version and, with --check, the latest release
func runVersion(cmd *cobra.Command) error {
	fmt.Printf("wayqa %s\n", appVersion)
	if !flagCheck {
		return nil
	}

	sender, err := executor.NewHTTPSender(executor.HTTPOptions{Timeout: updateCheckTimeout, FollowRedirects: true})
	if err != nil {
		return err
	}

	update, err := version.CheckForUpdate(cmd.Context(), executor.New(sender), version.ReleasesURL, appVersion)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if update.Available {
		fmt.Printf("A newer version is available: %s\n%s\n", update.Latest, update.URL)
	} else {
		fmt.Println("You are running the latest version")
	}
	return nil
}
