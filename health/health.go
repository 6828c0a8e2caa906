// Package health fans out liveness checks to every registered downstream
// service and produces a unified verdict for the gateway's health endpoints.
package health

import (
	"regexp"
	"time"
)

// Service status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Record is the health result for one service, constructed fresh on every
// check and never cached.
type Record struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	URL          string    `json:"url"`
	Timestamp    time.Time `json:"timestamp"`
	ResponseTime string    `json:"responseTime,omitempty"`
	Uptime       string    `json:"uptime,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// IsHealthy reports whether the record's status is healthy.
func (r Record) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Report is the aggregate of one full check sweep.
type Report struct {
	OverallStatus string    `json:"overallStatus"`
	Services      []Record  `json:"services"`
	TotalServices int       `json:"totalServices"`
	HealthyCount  int       `json:"healthyCount"`
	Timestamp     time.Time `json:"timestamp"`
}

// AggregateStatus computes the overall verdict: healthy iff every record is
// healthy, degraded otherwise. The gateway's own record counts too.
func AggregateStatus(records []Record) string {
	for _, r := range records {
		if !r.IsHealthy() {
			return StatusDegraded
		}
	}
	return StatusHealthy
}

// Pre-compiled regexes for error message sanitization.
var (
	httpURLRegex    = regexp.MustCompile(`https?://[^\s"]+`)
	portRegex       = regexp.MustCompile(`:\d{2,5}\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|key|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// sanitizeError strips URLs, ports and credential-looking fragments from a
// transport error before it is exposed on a public health endpoint.
func sanitizeError(msg string) string {
	if msg == "" {
		return ""
	}
	msg = httpURLRegex.ReplaceAllString(msg, "[URL]")
	msg = portRegex.ReplaceAllString(msg, "[PORT]")
	msg = credentialRegex.ReplaceAllString(msg, "[REDACTED]")
	return msg
}
