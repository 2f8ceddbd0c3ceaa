package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
	"github.com/MrSnakeDoc/gmapscan/internal/utils"
)

const (
	userAgent = "gmapscan/1.0"
	// maxBodyBytes bounds how much of a probe response we read for
	// classification. Error payloads are small; map tiles are not.
	maxBodyBytes = 64 * 1024
)

// Doer executes a single HTTP request. Satisfied by *transport.Retrying and
// by plain *http.Client in tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober issues one bounded check per Maps Platform service for a given key
// and classifies the answer by response content. Maps APIs return HTTP 200
// for many error conditions, so status codes alone are never trusted.
type Prober struct {
	transport Doer
	table     *pricing.Table
	timeout   time.Duration
	logger    logger.Logger

	// Endpoints maps services to request URL templates. Defaults to the
	// canonical Google endpoints; tests point it at local servers.
	Endpoints map[domain.ServiceID]string
}

// New creates a prober. timeout bounds each individual probe request
// (retries included run under the caller's broader context).
func New(transport Doer, table *pricing.Table, timeout time.Duration, log logger.Logger) *Prober {
	return &Prober{
		transport: transport,
		table:     table,
		timeout:   timeout,
		logger:    log,
		Endpoints: DefaultEndpoints(),
	}
}

// Probe checks one service with one key. It never returns an error: network
// or protocol failures classify as OutcomeTransientError so a single flaky
// service cannot abort the fan-out.
func (p *Prober) Probe(ctx context.Context, key domain.APIKey, svc domain.ServiceID) domain.ProbeResult {
	res := domain.ProbeResult{Service: svc, ProbedAt: time.Now()}

	tmpl, ok := p.Endpoints[svc]
	if !ok {
		res.Outcome = domain.OutcomeTransientError
		res.Detail = "no endpoint configured"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(tmpl, key), http.NoBody)
	if err != nil {
		res.Outcome = domain.OutcomeTransientError
		res.Detail = err.Error()
		return res
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.transport.Do(req)
	if err != nil {
		res.Outcome = domain.OutcomeTransientError
		res.Detail = err.Error()
		return res
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		res.Outcome = domain.OutcomeTransientError
		res.Detail = fmt.Sprintf("failed to read response: %v", err)
		return res
	}

	res.Outcome, res.Detail = Classify(resp.StatusCode, body)
	if res.Outcome == domain.OutcomeEnabled {
		res.CostPer1K = p.table.CostPer1K(svc)
	}

	p.logger.Debug("service probed",
		logger.String("key", key.Redacted()),
		logger.String("service", string(svc)),
		logger.String("outcome", string(res.Outcome)))

	return res
}
