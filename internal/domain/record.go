package domain

import "time"

// Outcome classifies a single probe attempt against one service.
type Outcome string

const (
	// OutcomeEnabled means the service answered a real response for the key:
	// the key can invoke this API.
	OutcomeEnabled Outcome = "ENABLED"
	// OutcomeDisabled means the service refused the key for reasons unrelated
	// to key restrictions: API not enabled on the project, billing missing,
	// quota exhausted.
	OutcomeDisabled Outcome = "DISABLED"
	// OutcomeRestrictionBlocked means the service rejected the key because of
	// a key-level restriction (referer/IP/app) or because the key itself is
	// invalid.
	OutcomeRestrictionBlocked Outcome = "RESTRICTION_BLOCKED"
	// OutcomeTransientError means the probe could not conclude: network
	// failure, timeout or an unparseable response. Never cached as a negative.
	OutcomeTransientError Outcome = "TRANSIENT_ERROR"
)

// Conclusive reports whether the outcome settles the service's state.
// TransientError is the only inconclusive outcome.
func (o Outcome) Conclusive() bool {
	return o != OutcomeTransientError && o != ""
}

// ProbeResult is the immutable result of one probe attempt.
type ProbeResult struct {
	Service   ServiceID `json:"service"`
	Outcome   Outcome   `json:"outcome"`
	CostPer1K float64   `json:"cost_per_1k"` // price observed at probe time, 0 unless enabled
	Detail    string    `json:"detail,omitempty"`
	ProbedAt  time.Time `json:"probed_at"`
}

// RestrictionStatus is the key-level classification derived from a full
// probe fan-out.
type RestrictionStatus string

const (
	StatusUnrestricted RestrictionStatus = "UNRESTRICTED"
	StatusRestricted   RestrictionStatus = "RESTRICTED"
	StatusUnknown      RestrictionStatus = "UNKNOWN"
)

// DeriveRestrictionStatus applies the classification rule:
//   - UNRESTRICTED: at least one service answered Enabled.
//   - RESTRICTED: at least one conclusive probe, and every conclusive probe
//     was Disabled or RestrictionBlocked.
//   - UNKNOWN: nothing conclusive (all transient, or no results at all).
func DeriveRestrictionStatus(results []ProbeResult) RestrictionStatus {
	conclusive := 0
	for _, r := range results {
		if r.Outcome == OutcomeEnabled {
			return StatusUnrestricted
		}
		if r.Outcome.Conclusive() {
			conclusive++
		}
	}
	if conclusive > 0 {
		return StatusRestricted
	}
	return StatusUnknown
}

// ValidationRecord is the full outcome of validating one key.
// Results are ordered by probe completion time.
//
// Ownership: the cache keeps its own copy once a record is stored; callers
// always hold an independent copy and may not observe cache mutations.
type ValidationRecord struct {
	Key       APIKey            `json:"key"`
	Results   []ProbeResult     `json:"results"`
	Status    RestrictionStatus `json:"status"`
	CheckedAt time.Time         `json:"checked_at"`
}

// EnabledServices returns the services observed Enabled, in result order.
func (r *ValidationRecord) EnabledServices() []ServiceID {
	var out []ServiceID
	for _, res := range r.Results {
		if res.Outcome == OutcomeEnabled {
			out = append(out, res.Service)
		}
	}
	return out
}

// Unresolved returns the services whose probes stayed inconclusive.
// A Finding for an UNKNOWN key reports these explicitly instead of guessing.
func (r *ValidationRecord) Unresolved() []ServiceID {
	var out []ServiceID
	for _, res := range r.Results {
		if !res.Outcome.Conclusive() {
			out = append(out, res.Service)
		}
	}
	return out
}

// Clone returns a deep copy with an independent results slice.
func (r *ValidationRecord) Clone() *ValidationRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Results = make([]ProbeResult, len(r.Results))
	copy(cp.Results, r.Results)
	return &cp
}
