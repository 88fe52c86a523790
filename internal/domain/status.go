// backend-go/internal/domain/status.go
package domain

// ReconStatus classifies the data-quality outcome of reconciling one sale.
type ReconStatus string

const (
	StatusMatched         ReconStatus = "Matched"
	StatusNoRebate        ReconStatus = "No Rebate"
	StatusCostMissing     ReconStatus = "Cost Missing"
	StatusPartiallyCosted ReconStatus = "Partially Costed"
	StatusNoOrderMatch    ReconStatus = "No Order Match"
)

// Priority ranks backorder restock candidates.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// SalesTrend describes demand direction over the trailing window.
type SalesTrend string

const (
	TrendIncreasing SalesTrend = "Increasing"
	TrendDecreasing SalesTrend = "Decreasing"
	TrendStable     SalesTrend = "Stable"
)

// Tier is the revenue-percentile customer tier.
type Tier string

const (
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
	TierBronze   Tier = "Bronze"
)

// TierScore is the weight a tier contributes to opportunity scoring.
// Unknown/empty tiers score zero.
func (t Tier) Score() float64 {
	switch t {
	case TierPlatinum:
		return 4
	case TierGold:
		return 3
	case TierSilver:
		return 2
	case TierBronze:
		return 1
	default:
		return 0
	}
}

// Quadrant is the 2x2 value/frequency segment of a customer.
type Quadrant string

const (
	QuadrantChampion    Quadrant = "Champion"
	QuadrantHighSpender Quadrant = "High-Spender"
	QuadrantLoyal       Quadrant = "Loyal"
	QuadrantWatch       Quadrant = "At-Risk/Watch"
)

// ShipmentStatus describes where a shipment group sits on its journey.
type ShipmentStatus string

const (
	ShipmentArrived  ShipmentStatus = "Arrived"
	ShipmentDelayed  ShipmentStatus = "Delayed"
	ShipmentTransit  ShipmentStatus = "Transit"
	ShipmentUpcoming ShipmentStatus = "Upcoming"
)

// ShipmentLeg names the segment of the supply route a group travels.
type ShipmentLeg string

const (
	LegFactoryToSgp ShipmentLeg = "CN→SG"
	LegSgpToKhm     ShipmentLeg = "SG→KH"
)
