// internal/workers/lease-intel/fetch-lease-intel/models.go
package fetchleaseintel

import "apartmentiq-workers/internal/dealscore"

type Input struct {
	PropertyIDs []string `json:"propertyIds"`
}

// Output always carries leaseIntel; a failed fetch leaves it empty and sets
// Error instead of failing the job.
type Output struct {
	LeaseIntel []dealscore.LeaseIntel `json:"leaseIntel"`
	Source     string                 `json:"source"`
	Requested  int                    `json:"requested"`
	Found      int                    `json:"found"`
	Error      string                 `json:"error,omitempty"`
	ErrorCode  string                 `json:"errorCode,omitempty"`
}
