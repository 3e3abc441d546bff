package dealscore

// turnoverThreshold is the share of units expiring within 90 days above
// which low renewal reads as a softening market.
const turnoverThreshold = 0.3

// PredictRentTrend classifies where rent is heading from renewal rate and
// the 90-day turnover ratio. A missing or zero unit count is read as one unit.
func PredictRentTrend(d LeaseIntel) RentTrend {
	d = Sanitize(d)

	units := 1
	if d.TotalUnits != nil && *d.TotalUnits > 0 {
		units = *d.TotalUnits
	}
	ratio := float64(d.ExpiringNext90Days) / float64(units)

	if d.RenewalRate < 60 && ratio > turnoverThreshold {
		return RentTrend{Direction: TrendDown, Reason: "High turnover suggests landlord may lower prices to attract tenants"}
	}
	if d.RenewalRate > 80 {
		return RentTrend{Direction: TrendUp, Reason: "High retention - residents are happy, prices may increase"}
	}
	return RentTrend{Direction: TrendStable, Reason: "Normal market conditions"}
}
