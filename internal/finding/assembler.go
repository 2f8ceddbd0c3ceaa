package finding

import (
	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
)

// Assembler turns raw validation records into reportable findings.
// Prices are looked up at assembly time, so a cached record picks up
// override reloads without being re-probed.
type Assembler struct {
	calc *pricing.Calculator
}

// New creates an assembler over the given calculator.
func New(calc *pricing.Calculator) *Assembler {
	return &Assembler{calc: calc}
}

// Assemble builds the cost-annotated finding for a validation record.
// The breakdown keeps the record's result order; disabled and blocked
// services appear with a zero cost so a report always shows all nine rows.
func (a *Assembler) Assemble(record *domain.ValidationRecord) *domain.Finding {
	table := a.calc.Table()

	breakdown := make([]domain.ServiceCost, 0, len(record.Results))
	for _, res := range record.Results {
		row := domain.ServiceCost{
			Service: res.Service,
			Name:    res.Service.DisplayName(),
			Enabled: res.Outcome == domain.OutcomeEnabled,
			Detail:  res.Detail,
		}
		if row.Enabled {
			row.CostPer1K = table.CostPer1K(res.Service)
			row.MonthlyFreeTier = table.FreeTier(res.Service)
		}
		breakdown = append(breakdown, row)
	}

	total := a.calc.TotalCostPer1K(record.EnabledServices())

	return &domain.Finding{
		Key:            record.Key,
		Status:         record.Status,
		Breakdown:      breakdown,
		TotalCostPer1K: total,
		Scenarios:      a.calc.AbuseScenarios(total),
		Unresolved:     record.Unresolved(),
		CheckedAt:      record.CheckedAt,
	}
}
