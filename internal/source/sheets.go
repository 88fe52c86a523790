package source

import (
	"context"

	"github.com/andresuchdata/marginsight/backend-go/internal/sheets"
)

// tabTitles maps collections onto the workbook's tab names.
var tabTitles = map[Collection]string{
	CollectionOrders:          "Orders",
	CollectionSales:           "Sales",
	CollectionSerializedItems: "Serialized Items",
	CollectionShipments:       "Shipments",
	CollectionAccessoryCosts:  "Accessory Costs",
	CollectionRebatePrograms:  "Rebate Programs",
	CollectionRebateDetails:   "Rebate Details",
	CollectionRebateSales:     "Rebate Sales",
}

// SheetsProvider reads source collections from the workbook tabs.
type SheetsProvider struct {
	svc *sheets.Service
}

func NewSheetsProvider(svc *sheets.Service) *SheetsProvider {
	return &SheetsProvider{svc: svc}
}

func (p *SheetsProvider) Fetch(ctx context.Context, c Collection) ([][]string, error) {
	tab, ok := tabTitles[c]
	if !ok {
		return nil, nil
	}
	return p.svc.ReadTab(ctx, tab)
}

var _ Provider = (*SheetsProvider)(nil)
