// Package cli implements intelctl, a command line front end to the scoring,
// pricing and paywall engines that the workers run.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"apartmentiq-workers/internal/common/config"
	"apartmentiq-workers/internal/common/logger"
)

var version = "dev"

// NewRootCmd creates the root cobra command for intelctl.
func NewRootCmd(v string) *cobra.Command {
	version = v

	root := &cobra.Command{
		Use:           "intelctl",
		Short:         "ApartmentIQ intelligence toolkit",
		Long:          "intelctl scores lease intelligence, prices listings, analyzes renter deals and simulates the paywall from JSON files.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScoreCmd())
	root.AddCommand(newPricingCmd())
	root.AddCommand(newRenterCmd())
	root.AddCommand(newGateCmd())

	root.PersistentFlags().StringP("config", "c", "", "path to config file (defaults apply when empty)")
	root.PersistentFlags().String("log-level", "warn", "log level written to stderr")

	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(path)
}

func newLogger(cmd *cobra.Command) logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewStructured(level, "console")
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
