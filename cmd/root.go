package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/marcus/lightbox/internal/config"
	"github.com/marcus/lightbox/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version  string
	baseDir  string
	logLevel logLevelFlag
	cfg      = &models.Config{}
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "lightbox",
	Short: "Focus-scoped modal demo and scenario runner",
	Long: `lightbox - A focus-scoped modal for the terminal.

Opening the lightbox moves keyboard focus into it; closing it (Escape, a
close control, or history back) returns focus to the element that opened it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(baseDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		setupLogging(cmd.Flags().Changed("log-level"))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if name := firstNonFlagArg(os.Args[1:]); name != "" && !isKnownCommand(name) {
			fmt.Fprintf(os.Stderr, "Run 'lightbox --help' for usage.\n")
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "log level (debug, info, warn, error)")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// setupLogging installs a stderr text handler. The flag wins over config.
func setupLogging(flagSet bool) {
	level := cfg.EffectiveLogLevel()
	if flagSet {
		level = logLevel.level
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(level),
	})))
}

// logLevelFlag is a --log-level value validated at parse time.
type logLevelFlag struct {
	level models.LogLevel
}

var _ pflag.Value = (*logLevelFlag)(nil)

func (f *logLevelFlag) String() string { return string(f.level) }

func (f *logLevelFlag) Type() string { return "level" }

func (f *logLevelFlag) Set(s string) error {
	l := models.LogLevel(strings.ToLower(s))
	if !models.IsValidLogLevel(l) {
		return fmt.Errorf("invalid log level %q (debug, info, warn, error)", s)
	}
	f.level = l
	return nil
}

func slogLevel(l models.LogLevel) slog.Level {
	switch l {
	case models.LogLevelDebug:
		return slog.LevelDebug
	case models.LogLevelInfo:
		return slog.LevelInfo
	case models.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// firstNonFlagArg returns the first argument that is not a flag
func firstNonFlagArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

func isKnownCommand(name string) bool {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
