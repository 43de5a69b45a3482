// Command sbfkit inspects and edits SBF files from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnsskit/sbfkit/stream"
)

var (
	cfgPath string
	cfg     config
	logger  *zap.Logger
	session *stream.Session
)

func main() {
	root := &cobra.Command{
		Use:           "sbfkit",
		Short:         "Inspect and edit SBF block streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cfgPath)
			if err != nil {
				return err
			}
			logger, err = newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			opts := []stream.SessionOption{stream.WithLogger(logger)}
			if cfg.LeapSecond != nil {
				opts = append(opts, stream.WithLeapSecond(int8(*cfg.LeapSecond), false))
			}
			session = stream.NewSession(opts...)

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")
	root.AddCommand(newInfoCmd(), newCropCmd(), newFilterCmd(), newSampleCmd(), newMergeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sbfkit:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	conf := zap.NewProductionConfig()
	conf.Level = lvl

	return conf.Build()
}
