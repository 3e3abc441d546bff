// internal/workers/lease-intel/score-lease-deal/models.go
package scoreleasedeal

import "apartmentiq-workers/internal/dealscore"

type Input struct {
	LeaseIntel []dealscore.LeaseIntel `json:"leaseIntel"`
}

// Output keeps badges in input order.
type Output struct {
	Badges             []dealscore.Badges `json:"badges"`
	BestDealPropertyID string             `json:"bestDealPropertyId,omitempty"`
	AverageDealScore   float64            `json:"averageDealScore"`
	FallingRentCount   int                `json:"fallingRentCount"`
}
