// Package pricing implements the quotation pricing rules. Every view
// that shows a price goes through Quote; nothing re-derives totals.
package pricing

import (
	"github.com/google/uuid"

	"github.com/signgroup/workshop-api/internal/domain"
)

// Catalog resolves a cost item reference to its unit cost. A missing
// item resolves to ok=false and the line prices at zero; stale
// references never fail a quotation.
type Catalog interface {
	CostPerUnit(itemID uuid.UUID) (float64, bool)
}

// MapCatalog is an in-memory Catalog backed by a plain map
type MapCatalog map[uuid.UUID]float64

// CostPerUnit implements Catalog
func (c MapCatalog) CostPerUnit(itemID uuid.UUID) (float64, bool) {
	cost, ok := c[itemID]
	return cost, ok
}

// NewCatalog builds a MapCatalog from catalog rows
func NewCatalog(items []domain.CostItem) MapCatalog {
	c := make(MapCatalog, len(items))
	for _, item := range items {
		c[item.ID] = item.CostPerUnit
	}
	return c
}

// Breakdown contains all intermediate values of the pricing calculation
type Breakdown struct {
	LineItemsTotal              float64
	Subtotal                    float64
	ProfitMarkupAmount          float64
	FixedCostContributionAmount float64
	FinalTotal                  float64
}

// Quote computes the full price breakdown for a quotation:
//
//	lineItemsTotal = Σ quantity × costPerUnit
//	subtotal       = lineItemsTotal + fixedCosts
//	finalTotal     = subtotal + subtotal×markup% + subtotal×contribution%
//
// Both percentage amounts are taken of the same subtotal; they do not
// compound. No rounding is applied at any stage.
func Quote(details domain.QuotationDetails, catalog Catalog) Breakdown {
	var lineItemsTotal float64
	for _, line := range details.LineItems {
		cost, ok := catalog.CostPerUnit(line.ItemID)
		if !ok {
			continue
		}
		lineItemsTotal += cost * line.Quantity
	}

	subtotal := lineItemsTotal + details.FixedCosts
	markup := subtotal * (details.ProfitMarkupPercentage / 100.0)
	contribution := subtotal * (details.FixedCostContributionPercentage / 100.0)

	return Breakdown{
		LineItemsTotal:              lineItemsTotal,
		Subtotal:                    subtotal,
		ProfitMarkupAmount:          markup,
		FixedCostContributionAmount: contribution,
		FinalTotal:                  subtotal + markup + contribution,
	}
}

// Total is a shorthand for Quote(...).FinalTotal
func Total(details domain.QuotationDetails, catalog Catalog) float64 {
	return Quote(details, catalog).FinalTotal
}
