package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"apartmentiq-workers/internal/pricing"
)

// listingsFile is the input of the pricing and renter commands.
type listingsFile struct {
	Listings      []pricing.Listing      `json:"listings"`
	MarketContext *pricing.MarketContext `json:"marketContext,omitempty"`
}

func readListings(cmd *cobra.Command, path string) (*listingsFile, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var in listingsFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return &in, nil
}

type pricingReport struct {
	pricing.Result
	UrgentPropertyIDs []string `json:"urgentPropertyIds"`
}

func newPricingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing <file|->",
		Short: "Generate landlord pricing recommendations for listings",
		Args:  cobra.ExactArgs(1),
		RunE:  runPricing,
	}
	cmd.Flags().Bool("urgent-only", false, "print only the IDs needing immediate action")
	return cmd
}

func runPricing(cmd *cobra.Command, args []string) error {
	in, err := readListings(cmd, args[0])
	if err != nil {
		return err
	}

	res := pricing.NewEngine(newLogger(cmd)).GenerateAll(in.Listings, in.MarketContext, time.Now())
	urgent := pricing.UrgentProperties(res.Recommendations)

	if only, _ := cmd.Flags().GetBool("urgent-only"); only {
		return writeJSON(cmd, urgent)
	}
	return writeJSON(cmd, pricingReport{Result: res, UrgentPropertyIDs: urgent})
}
