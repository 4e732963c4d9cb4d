// Package commands holds the cobra command tree of the listview binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/pstuifzand/listview/internal/config"
	"github.com/pstuifzand/listview/internal/logging"
)

// RootOptions are the persistent flags shared by all commands
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	cfg *config.Config
}

func AddRootArgs(cmd *cobra.Command, ro *RootOptions) {
	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "",
		"Config file to use instead of ~/.config/listview/config.toml.")
	cmd.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "",
		"Log level (debug, info, warn, error); overrides the config file.")
}

// Config loads the configuration once and applies the flag overrides
func (ro *RootOptions) Config() (*config.Config, error) {
	if ro.cfg != nil {
		return ro.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if ro.ConfigPath != "" {
		cfg, err = config.LoadFromFile(ro.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if ro.LogLevel != "" {
		cfg.Log.Level = ro.LogLevel
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	ro.cfg = cfg
	return cfg, nil
}

func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "listview",
		Short:         "Browse and query hierarchical item lists.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	AddRootArgs(cmd, ro)

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addBrowse(topLevel, ro)
	addInspect(topLevel, ro)
}
