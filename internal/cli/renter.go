package cli

import (
	"github.com/spf13/cobra"

	"apartmentiq-workers/internal/pricing"
	"apartmentiq-workers/internal/renterintel"
)

type renterReport struct {
	renterintel.Result
	Ranked                 []string `json:"rankedPropertyIds"`
	ImmediateOpportunities []string `json:"immediateOpportunities"`
	TotalPotentialSavings  float64  `json:"totalPotentialSavings"`
}

func newRenterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renter <file|->",
		Short: "Analyze listings from the renter's side of the negotiation",
		Args:  cobra.ExactArgs(1),
		RunE:  runRenter,
	}
}

func runRenter(cmd *cobra.Command, args []string) error {
	in, err := readListings(cmd, args[0])
	if err != nil {
		return err
	}

	log := newLogger(cmd)
	res := renterintel.NewEngine(pricing.NewEngine(log), log).Analyze(in.Listings)

	return writeJSON(cmd, renterReport{
		Result:                 res,
		Ranked:                 renterintel.SortedByDealScore(res.Deals),
		ImmediateOpportunities: renterintel.ImmediateOpportunities(res.Deals),
		TotalPotentialSavings:  renterintel.TotalPotentialSavings(res.Deals),
	})
}
