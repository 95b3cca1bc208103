// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/voxbooth/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Loaded in PersistentPreRunE
	globalConfig *config.Config
	logger       *slog.Logger
	logCloser    io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "voxbooth",
	Short: "Voice effects for recorded messages",
	Long: `voxbooth - render a recorded message in a set of playful voices.

A recording (WAV, AIFF, MP3, Ogg Vorbis or Ogg Opus) is decoded, every
active voice is rendered offline and encoded as Ogg Opus when available,
or WAV otherwise.

Examples:
  # List the voices of the active set
  voxbooth voices

  # Render all voices of a recording into ./out
  voxbooth render message.wav --out out

  # Use a config file and upload the results
  voxbooth -f voxbooth.yaml render message.ogg --upload --title "Hi" --phone +15550100`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		l, closer, err := cfg.Log.NewLogger()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}

		globalConfig, logger, logCloser = cfg, l, closer
		slog.SetDefault(logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Command returns the root cobra command.
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(probeCmd)
}
