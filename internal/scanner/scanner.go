package scanner

import (
	"context"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/finding"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
)

// Severity buckets a finding for the reporting collaborator. The threshold
// only drives reporting; cost math upstream never sees it.
type Severity string

const (
	SeverityHigh        Severity = "High"
	SeverityMedium      Severity = "Medium"
	SeverityInformation Severity = "Information"
)

// Source describes where a scanned response came from.
type Source struct {
	Host string `json:"host"`
	Tool string `json:"tool,omitempty"`
}

// KeyValidator validates one key. Satisfied by *validator.Validator.
type KeyValidator interface {
	Validate(ctx context.Context, key domain.APIKey) (*domain.ValidationRecord, error)
}

// Scanner extracts Maps API keys from intercepted response bodies and runs
// them through validation and cost assembly. Each key is inspected once per
// process; the validator's cache handles freshness beyond that.
type Scanner struct {
	validator      KeyValidator
	assembler      *finding.Assembler
	logger         logger.Logger
	costThreshold  float64
	excludedHosts  []string
	monitoredTools map[string]bool // empty = accept every tool

	mu   sync.Mutex
	seen map[domain.APIKey]bool
}

// New creates a scanner. monitoredTools narrows which interception tools are
// inspected; an empty list accepts everything.
func New(
	v KeyValidator,
	a *finding.Assembler,
	log logger.Logger,
	costThreshold float64,
	excludedHosts []string,
	monitoredTools []string,
) *Scanner {
	tools := make(map[string]bool, len(monitoredTools))
	for _, t := range monitoredTools {
		tools[strings.ToLower(t)] = true
	}
	return &Scanner{
		validator:      v,
		assembler:      a,
		logger:         log,
		costThreshold:  costThreshold,
		excludedHosts:  excludedHosts,
		monitoredTools: tools,
		seen:           make(map[domain.APIKey]bool),
	}
}

// ShouldInspect reports whether a source is in scope: not from an excluded
// host and, when a tool filter is set, from a monitored tool.
func (s *Scanner) ShouldInspect(src Source) bool {
	host := strings.ToLower(src.Host)
	for _, excluded := range s.excludedHosts {
		if excluded != "" && strings.Contains(host, strings.ToLower(excluded)) {
			return false
		}
	}

	if len(s.monitoredTools) > 0 && !s.monitoredTools[strings.ToLower(src.Tool)] {
		return false
	}
	return true
}

// ScanResponse extracts keys from a response body and returns a finding per
// key not seen before. A key that fails validation is logged and skipped;
// one bad key never loses the others.
func (s *Scanner) ScanResponse(ctx context.Context, src Source, body []byte) ([]*domain.Finding, error) {
	if !s.ShouldInspect(src) {
		s.logger.Debug("source out of scope, skipping",
			logger.String("host", src.Host),
			logger.String("tool", src.Tool))
		return nil, nil
	}

	keys := domain.ExtractKeys(string(body))
	if len(keys) == 0 {
		return nil, nil
	}

	var findings []*domain.Finding
	for _, key := range keys {
		if !s.markSeen(key) {
			s.logger.Debug("key already inspected",
				logger.String("key", key.Redacted()))
			continue
		}

		f, err := s.ProcessKey(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return findings, ctx.Err()
			}
			s.logger.Warn("failed to process key",
				logger.String("key", key.Redacted()),
				logger.String("host", src.Host),
				logger.Error(err))
			s.forget(key)
			continue
		}

		s.logger.Info("key finding assembled",
			logger.String("key", key.Redacted()),
			logger.String("host", src.Host),
			logger.String("status", string(f.Status)),
			logger.Float64("total_cost_per_1k", f.TotalCostPer1K),
			logger.String("severity", string(s.Severity(f))))

		findings = append(findings, f)
	}
	return findings, nil
}

// ProcessKey validates a single key and assembles its finding. It does not
// consult the seen set; callers wanting dedupe go through ScanResponse.
func (s *Scanner) ProcessKey(ctx context.Context, key domain.APIKey) (*domain.Finding, error) {
	record, err := s.validator.Validate(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(record), nil
}

// Severity ranks a finding: High when the key is unrestricted and its
// exposure clears the threshold, Medium when only the exposure does,
// Information otherwise.
func (s *Scanner) Severity(f *domain.Finding) Severity {
	switch {
	case f.Status == domain.StatusUnrestricted && f.TotalCostPer1K >= s.costThreshold:
		return SeverityHigh
	case f.TotalCostPer1K >= s.costThreshold:
		return SeverityMedium
	default:
		return SeverityInformation
	}
}

// SeenCount returns how many distinct keys this process has inspected.
func (s *Scanner) SeenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// markSeen claims a key for inspection. Returns false if already claimed.
func (s *Scanner) markSeen(key domain.APIKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

// forget releases a key so a later response can retry it after a failure.
func (s *Scanner) forget(key domain.APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
}
