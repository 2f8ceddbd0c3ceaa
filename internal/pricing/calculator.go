package pricing

import "github.com/MrSnakeDoc/gmapscan/internal/domain"

// volumeTiers are the fixed abuse-volume assumptions, in requests per month.
var volumeTiers = []struct {
	name    string
	monthly int64
}{
	{name: "Low", monthly: 1_000_000},
	{name: "Medium", monthly: 10_000_000},
	{name: "High", monthly: 100_000_000},
}

// Calculator turns enabled-service sets into dollar exposure figures.
// It is stateless apart from the pricing table, so prices changed by an
// override reload take effect on the next computation, no re-probe needed.
type Calculator struct {
	table *Table
}

// NewCalculator creates a calculator backed by the given pricing table.
func NewCalculator(table *Table) *Calculator {
	return &Calculator{table: table}
}

// Table exposes the underlying pricing table for per-service lookups.
func (c *Calculator) Table() *Table {
	return c.table
}

// TotalCostPer1K sums the price of every enabled service. Services never
// probed or inconclusive must not be in the set; unknown services sum as
// zero.
func (c *Calculator) TotalCostPer1K(enabled []domain.ServiceID) float64 {
	var total float64
	for _, id := range enabled {
		total += c.table.CostPer1K(id)
	}
	return total
}

// AbuseScenarios projects monthly and yearly exposure at each volume tier.
// monthly = costPer1K * (volume / 1000), yearly = 12 * monthly.
func (c *Calculator) AbuseScenarios(costPer1K float64) []domain.AbuseScenario {
	scenarios := make([]domain.AbuseScenario, 0, len(volumeTiers))
	for _, tier := range volumeTiers {
		monthly := costPer1K * float64(tier.monthly) / 1000
		scenarios = append(scenarios, domain.AbuseScenario{
			Tier:            tier.name,
			MonthlyRequests: tier.monthly,
			MonthlyCost:     monthly,
			YearlyCost:      monthly * 12,
		})
	}
	return scenarios
}
