package pricing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/pricing"
)

func TestQuote(t *testing.T) {
	itemID := uuid.New()

	t.Run("computes full breakdown for worked example", func(t *testing.T) {
		catalog := pricing.MapCatalog{itemID: 350}
		details := domain.QuotationDetails{
			LineItems: []domain.QuotationLineItem{
				{ItemID: itemID, Quantity: 12},
			},
			FixedCosts:                      150,
			ProfitMarkupPercentage:          20,
			FixedCostContributionPercentage: 15,
		}

		b := pricing.Quote(details, catalog)

		assert.Equal(t, 4200.0, b.LineItemsTotal)
		assert.Equal(t, 4350.0, b.Subtotal)
		assert.Equal(t, 870.0, b.ProfitMarkupAmount)
		assert.Equal(t, 652.5, b.FixedCostContributionAmount)
		assert.Equal(t, 5872.5, b.FinalTotal)
	})

	t.Run("empty line items and zero fixed costs yield zero total", func(t *testing.T) {
		details := domain.QuotationDetails{
			ProfitMarkupPercentage:          50,
			FixedCostContributionPercentage: 99,
		}

		b := pricing.Quote(details, pricing.MapCatalog{})

		assert.Equal(t, 0.0, b.FinalTotal)
		assert.Equal(t, 0.0, b.Subtotal)
	})

	t.Run("unknown item reference contributes zero", func(t *testing.T) {
		catalog := pricing.MapCatalog{itemID: 350}
		details := domain.QuotationDetails{
			LineItems: []domain.QuotationLineItem{
				{ItemID: itemID, Quantity: 2},
				{ItemID: uuid.New(), Quantity: 1000},
			},
		}

		b := pricing.Quote(details, catalog)

		assert.Equal(t, 700.0, b.LineItemsTotal)
		assert.Equal(t, 700.0, b.FinalTotal)
	})

	t.Run("percentages apply to the same subtotal without compounding", func(t *testing.T) {
		details := domain.QuotationDetails{
			FixedCosts:                      100,
			ProfitMarkupPercentage:          10,
			FixedCostContributionPercentage: 10,
		}

		b := pricing.Quote(details, pricing.MapCatalog{})

		assert.Equal(t, 10.0, b.ProfitMarkupAmount)
		assert.Equal(t, 10.0, b.FixedCostContributionAmount)
		assert.Equal(t, 120.0, b.FinalTotal)
	})

	t.Run("increasing a quantity strictly increases the total", func(t *testing.T) {
		catalog := pricing.MapCatalog{itemID: 25}
		details := domain.QuotationDetails{
			LineItems: []domain.QuotationLineItem{
				{ItemID: itemID, Quantity: 3},
			},
			FixedCosts:             40,
			ProfitMarkupPercentage: 20,
		}

		before := pricing.Quote(details, catalog).FinalTotal
		details.LineItems[0].Quantity = 4
		after := pricing.Quote(details, catalog).FinalTotal

		assert.Greater(t, after, before)
	})

	t.Run("is deterministic for identical inputs", func(t *testing.T) {
		catalog := pricing.MapCatalog{itemID: 123.45}
		details := domain.QuotationDetails{
			LineItems: []domain.QuotationLineItem{
				{ItemID: itemID, Quantity: 7},
			},
			FixedCosts:                      33.3,
			ProfitMarkupPercentage:          12.5,
			FixedCostContributionPercentage: 7.5,
		}

		assert.Equal(t, pricing.Quote(details, catalog), pricing.Quote(details, catalog))
	})

	t.Run("unclamped percentages are applied as given", func(t *testing.T) {
		details := domain.QuotationDetails{
			FixedCosts:                      100,
			ProfitMarkupPercentage:          250,
			FixedCostContributionPercentage: -10,
		}

		b := pricing.Quote(details, pricing.MapCatalog{})

		assert.Equal(t, 250.0, b.ProfitMarkupAmount)
		assert.Equal(t, -10.0, b.FixedCostContributionAmount)
		assert.Equal(t, 340.0, b.FinalTotal)
	})
}

func TestNewCatalog(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	catalog := pricing.NewCatalog([]domain.CostItem{
		{BaseModel: domain.BaseModel{ID: a}, Name: "Acrylic letter", CostPerUnit: 350},
		{BaseModel: domain.BaseModel{ID: b}, Name: "LED module", CostPerUnit: 12.5},
	})

	cost, ok := catalog.CostPerUnit(a)
	assert.True(t, ok)
	assert.Equal(t, 350.0, cost)

	_, ok = catalog.CostPerUnit(uuid.New())
	assert.False(t, ok)
}
