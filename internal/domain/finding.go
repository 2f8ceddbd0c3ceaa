package domain

import "time"

// ServiceCost is one row of a finding's per-service cost breakdown.
// MonthlyFreeTier is informational (Google's free monthly quota); it never
// feeds the exposure math.
type ServiceCost struct {
	Service         ServiceID `json:"service"`
	Name            string    `json:"name"`
	Enabled         bool      `json:"enabled"`
	CostPer1K       float64   `json:"cost_per_1k"`
	MonthlyFreeTier int64     `json:"monthly_free_tier,omitempty"`
	Detail          string    `json:"detail,omitempty"`
}

// AbuseScenario projects the monthly and yearly exposure of a key at a fixed
// abuse volume. Scenarios are derived on demand and never persisted.
type AbuseScenario struct {
	Tier            string  `json:"tier"` // Low, Medium, High
	MonthlyRequests int64   `json:"monthly_requests"`
	MonthlyCost     float64 `json:"monthly_cost"`
	YearlyCost      float64 `json:"yearly_cost"`
}

// Finding is the structured record handed to the external reporting
// collaborator. It is immutable after assembly; rendering (tables, issues)
// is the collaborator's job.
type Finding struct {
	Key            APIKey            `json:"key"`
	Status         RestrictionStatus `json:"status"`
	Breakdown      []ServiceCost     `json:"breakdown"`
	TotalCostPer1K float64           `json:"total_cost_per_1k"`
	Scenarios      []AbuseScenario   `json:"scenarios"`
	Unresolved     []ServiceID       `json:"unresolved,omitempty"`
	CheckedAt      time.Time         `json:"checked_at"`
}
