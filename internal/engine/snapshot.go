// backend-go/internal/engine/snapshot.go
package engine

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// Snapshot is the immutable view of every source collection at one point
// in time. Any subset may be empty or stale; the engine degrades to
// missing-data statuses instead of failing.
type Snapshot struct {
	Orders          []domain.Order          `json:"orders"`
	Sales           []domain.Sale           `json:"sales"`
	SerializedItems []domain.SerializedItem `json:"serialized_items"`
	Shipments       []domain.Shipment       `json:"shipments"`
	AccessoryCosts  []domain.AccessoryCost  `json:"accessory_costs"`
	RebatePrograms  []domain.RebateProgram  `json:"rebate_programs"`
	RebateDetails   []domain.RebateDetail   `json:"rebate_details"`
	RebateSales     []domain.RebateSale     `json:"rebate_sales"`
}

// Derived is the full output of one computation pass. Recomputing from
// an unchanged Snapshot with the same today yields a bit-identical value.
type Derived struct {
	ReconciledSales []domain.ReconciledSale           `json:"reconciled_sales"`
	Inventory       []domain.InventoryItem            `json:"inventory"`
	Backorders      []domain.BackorderRecommendation  `json:"backorders"`
	Customers       []domain.Customer                 `json:"customers"`
	Opportunities   []domain.CustomerSalesOpportunity `json:"opportunities"`
	Promotions      []domain.PromotionCandidate       `json:"promotions"`
	ShipmentGroups  []domain.AugmentedShipmentGroup   `json:"shipment_groups"`
	Summary         domain.DashboardSummary           `json:"summary"`
}

// Fingerprint is a content hash of the snapshot, used to skip
// recomputation and redundant sink pushes when nothing changed.
func (s Snapshot) Fingerprint() string {
	return fingerprintJSON(s)
}

// Fingerprint is a content hash of the derived collections.
func (d Derived) Fingerprint() string {
	return fingerprintJSON(d)
}

func fingerprintJSON(v interface{}) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
