package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/benoitkugler/gridlayout/html/tree"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/version"
)

// config is read from gridlayout.yaml, the GRIDLAYOUT_* environment
// variables and the command line flags, in increasing priority.
type config struct {
	Viewport struct {
		Width  float64 `mapstructure:"width"`
		Height float64 `mapstructure:"height"` // 0 for an auto height
	} `mapstructure:"viewport"`
	Output   string        `mapstructure:"output"`
	Jobs     int           `mapstructure:"jobs"`
	MaxLines int           `mapstructure:"max_lines"`
	Metrics  tree.Metrics  `mapstructure:"metrics"`
	Log      logger.Config `mapstructure:"log"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "gridlayout",
		Short:        "Lay out HTML fixtures with the CSS grid layout.",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if err := logger.Configure(cfg.Log); err != nil {
				return fmt.Errorf("invalid log configuration: %w", err)
			}
			logger.L().Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()))
			return nil
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./gridlayout.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("log-file", "", "also write the logs to this file, rotated")
	bindFlags(v, pf, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
	})
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("metrics.char_width", tree.DefaultMetrics.CharWidth)
	v.SetDefault("metrics.space_width", tree.DefaultMetrics.SpaceWidth)
	v.SetDefault("metrics.line_height", tree.DefaultMetrics.LineHeight)

	root.AddCommand(newLayoutCmd(v), newVersionCmd())
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %s", name, err))
		}
	}
}

// readConfig reads in the config file and the environment variables.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gridlayout")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GRIDLAYOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// no config file: defaults, environment and flags only
	}
	return nil
}

func loadConfig(v *viper.Viper) (config, error) {
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.VersionString)
		},
	}
}
