package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/marcus/lightbox/internal/config"
	"github.com/marcus/lightbox/internal/models"
	"github.com/marcus/lightbox/internal/output"
	"github.com/marcus/lightbox/pkg/lightbox"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change local lightbox settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set close_label, history, or log_level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfig(getBaseDir(), args[0], args[1]); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.Success("%s = %s", args[0], args[1]))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in an interactive form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			err := errors.New("config edit requires a terminal")
			output.Error("%v", err)
			return err
		}
		vals := newConfigValues(cfg)
		if err := configForm(vals).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			output.Error("%v", err)
			return err
		}
		if err := config.Save(getBaseDir(), vals.apply(cfg)); err != nil {
			output.Error("save config: %v", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.Success("saved %s", config.Path(getBaseDir())))
		return nil
	},
}

// configValues holds form state for config edit.
type configValues struct {
	CloseLabel  string
	CloseOnBlur bool
	History     bool
	LogLevel    string
}

func newConfigValues(c *models.Config) *configValues {
	return &configValues{
		CloseLabel:  c.CloseLabel,
		CloseOnBlur: c.CloseOnBlur,
		History:     c.HistoryEnabled(),
		LogLevel:    string(c.EffectiveLogLevel()),
	}
}

// apply returns a copy of c with the form values set.
func (v *configValues) apply(c *models.Config) *models.Config {
	out := *c
	out.CloseLabel = v.CloseLabel
	out.CloseOnBlur = v.CloseOnBlur
	history := v.History
	out.History = &history
	out.LogLevel = models.LogLevel(v.LogLevel)
	return &out
}

func configForm(v *configValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Close label").
				Placeholder(lightbox.DefaultCloseLabel).
				Value(&v.CloseLabel),
			huh.NewConfirm().
				Title("Close when focus leaves the lightbox").
				Value(&v.CloseOnBlur),
			huh.NewConfirm().
				Title("History back closes the lightbox").
				Value(&v.History),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&v.LogLevel),
		),
	)
}

func setConfig(dir, key, value string) error {
	switch key {
	case "close_label":
		return config.SetCloseLabel(dir, value)
	case "log_level":
		return config.SetLogLevel(dir, models.LogLevel(value))
	case "history":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		return config.SetHistory(dir, enabled)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func printConfig(w io.Writer, c *models.Config) {
	label := c.CloseLabel
	if label == "" {
		label = lightbox.DefaultCloseLabel
	}
	fmt.Fprintf(w, "close_label:   %s\n", label)
	fmt.Fprintf(w, "close_on_blur: %v\n", c.CloseOnBlur)
	fmt.Fprintf(w, "history:       %v\n", c.HistoryEnabled())
	fmt.Fprintf(w, "log_level:     %s\n", c.EffectiveLogLevel())
}

func init() {
	configCmd.AddCommand(configSetCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
