package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"apartmentiq-workers/internal/common/config"
	"apartmentiq-workers/internal/dealscore"
	"apartmentiq-workers/internal/leaseintel"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [file|-]",
		Short: "Compute deal badges for lease intelligence records",
		Long: "Reads a {\"data\": [...]} lease intelligence payload from a file or stdin, " +
			"or fetches it from the configured API with --property-ids, and prints one badge set per property.",
		Args: cobra.MaximumNArgs(1),
		RunE: runScore,
	}
	cmd.Flags().StringSlice("property-ids", nil, "fetch these properties from lease_intel.base_url instead of reading a file")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("property-ids")

	var records []dealscore.LeaseIntel
	switch {
	case len(ids) > 0:
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		timeout := config.GetDuration(cfg.LeaseIntel.Timeout)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		src := leaseintel.NewHTTPSource(cfg.LeaseIntel.BaseURL, timeout, nil)
		records, err = leaseintel.FetchAll(ctx, src, ids, cfg.LeaseIntel.Concurrency, newLogger(cmd))
		if err != nil {
			return err
		}
	case len(args) == 1:
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		if records, err = leaseintel.DecodePayload(raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("pass a payload file, - for stdin, or --property-ids")
	}

	badges := make([]dealscore.Badges, 0, len(records))
	for _, r := range records {
		badges = append(badges, dealscore.Evaluate(r))
	}
	return writeJSON(cmd, badges)
}
