package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/errors"
	"github.com/3a-softwares/E-Storefront-Services/metric"
)

// GatewayName is the synthetic record the checker appends for itself.
const GatewayName = "gateway"

// Checker probes every registered downstream service's /health endpoint.
type Checker struct {
	registry config.Registry
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metric.Metrics
	started  time.Time
}

// NewChecker creates a checker over the service registry. timeout caps each
// individual probe; metrics may be nil.
func NewChecker(registry config.Registry, timeout time.Duration, logger *slog.Logger, metrics *metric.Metrics) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		registry: registry,
		http:     &http.Client{Timeout: timeout},
		timeout:  timeout,
		logger:   logger.With("component", "health"),
		metrics:  metrics,
		started:  time.Now(),
	}
}

// ServiceNames returns the registered downstream service names in order.
func (c *Checker) ServiceNames() []string {
	return c.registry.Names()
}

// CheckAll probes every registered service concurrently, waits for all
// outcomes, appends the gateway's own always-healthy record last, and
// aggregates. The report carries exactly registry-size + 1 records in
// registration order. One slow or dead service never blocks the others
// beyond its own timeout.
func (c *Checker) CheckAll(ctx context.Context) Report {
	endpoints := c.registry.All()
	records := make([]Record, len(endpoints))

	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		g.Go(func() error {
			records[i] = c.probe(gctx, ep)
			return nil
		})
	}
	// Probes never return errors; failures become unhealthy records.
	_ = g.Wait()

	records = append(records, c.gatewayRecord())

	healthy := 0
	for _, r := range records {
		if r.IsHealthy() {
			healthy++
		}
	}

	report := Report{
		OverallStatus: AggregateStatus(records),
		Services:      records,
		TotalServices: len(records),
		HealthyCount:  healthy,
		Timestamp:     time.Now().UTC(),
	}

	c.logger.Info("health sweep complete",
		"overall", report.OverallStatus,
		"healthy", report.HealthyCount,
		"total", report.TotalServices)
	return report
}

// CheckOne probes a single service by name. An unregistered name yields a
// not-found error enumerating the valid names, never a generic failure.
func (c *Checker) CheckOne(ctx context.Context, name string) (Record, error) {
	ep, ok := c.registry.Lookup(name)
	if !ok {
		err := fmt.Errorf("%w: unknown service %q, available: %s",
			errors.ErrNotFound, name, strings.Join(c.registry.Names(), ", "))
		return Record{}, errors.WrapNotFound(err, "Checker", "CheckOne", name)
	}
	return c.probe(ctx, ep), nil
}

// probe issues one bounded GET to the service's /health endpoint. Only an
// HTTP 200 counts as healthy; timeouts, refused connections and non-200
// statuses all become unhealthy records with the captured error.
func (c *Checker) probe(ctx context.Context, ep config.Endpoint) Record {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rec := Record{
		Name:      ep.Name,
		URL:       ep.BaseURL,
		Timestamp: time.Now().UTC(),
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.BaseURL+"/health", nil)
	if err != nil {
		return c.unhealthy(rec, time.Since(start), err.Error())
	}

	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return c.unhealthy(rec, elapsed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.unhealthy(rec, elapsed, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	rec.Status = StatusHealthy
	rec.ResponseTime = formatResponseTime(elapsed)
	rec.Uptime = uptimeFromBody(resp.Body)
	c.setGauge(ep.Name, 1)
	return rec
}

func (c *Checker) unhealthy(rec Record, elapsed time.Duration, msg string) Record {
	rec.Status = StatusUnhealthy
	rec.ResponseTime = formatResponseTime(elapsed)
	rec.Error = sanitizeError(msg)
	c.setGauge(rec.Name, 0)
	c.logger.Warn("service unhealthy", "service", rec.Name, "error", rec.Error)
	return rec
}

// gatewayRecord is the checker reporting on itself: always healthy.
func (c *Checker) gatewayRecord() Record {
	c.setGauge(GatewayName, 1)
	return Record{
		Name:      GatewayName,
		Status:    StatusHealthy,
		URL:       "self",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(c.started).Round(time.Second).String(),
	}
}

func (c *Checker) setGauge(service string, up float64) {
	if c.metrics == nil {
		return
	}
	c.metrics.HealthStatus.WithLabelValues(service).Set(up)
}

func formatResponseTime(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// uptimeFromBody extracts the uptime field downstream health endpoints
// report, when present. Best effort; an unreadable body is not an error.
func uptimeFromBody(body io.Reader) string {
	var payload struct {
		Uptime float64 `json:"uptime"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Uptime <= 0 {
		return ""
	}
	return (time.Duration(payload.Uptime) * time.Second).String()
}
