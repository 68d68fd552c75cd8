package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// StartTransaction starts a new transaction
func (nr *NewRelicApp) StartTransaction(name string) *newrelic.Transaction {
	if !nr.enabled || nr.Application == nil {
		return nil
	}
	return nr.Application.StartTransaction(name)
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom event helpers

// RecordTripPublished records trip creation
func (nr *NewRelicApp) RecordTripPublished(origin, destination string, seats int) {
	nr.RecordCustomEvent("TripPublished", map[string]interface{}{
		"origin":      origin,
		"destination": destination,
		"seats":       seats,
		"timestamp":   time.Now().Unix(),
	})
}

// RecordSeatsReserved records a successful seat reservation
func (nr *NewRelicApp) RecordSeatsReserved(tripID string, seats, remaining int) {
	nr.RecordCustomEvent("SeatsReserved", map[string]interface{}{
		"trip_id":   tripID,
		"seats":     seats,
		"remaining": remaining,
	})
}

// RecordRatingAdded records a rating insert
func (nr *NewRelicApp) RecordRatingAdded(score float64) {
	nr.RecordCustomMetric("custom/rating/score", score)
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}
