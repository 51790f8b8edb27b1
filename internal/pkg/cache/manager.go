package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

// Manager holds the per-operation gateway result caches. Suggestions
// and geocodes are short-lived; details live longer so repeated
// fetches for the same place_id stay idempotent within a session.
type Manager struct {
	Suggestions *ResultCache[[]models.Suggestion]
	Geocodes    *ResultCache[models.Location]
	Details     *ResultCache[models.PlaceDetail]
}

// NewManager creates the gateway caches with their default TTLs.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Suggestions: NewResultCache[[]models.Suggestion](5*time.Minute, "suggestions", logger),
		Geocodes:    NewResultCache[models.Location](15*time.Minute, "geocodes", logger),
		Details:     NewResultCache[models.PlaceDetail](10*time.Minute, "details", logger),
	}
}

// GetAllMetrics returns counters for every cache.
func (m *Manager) GetAllMetrics() map[string]Metrics {
	return map[string]Metrics{
		"suggestions": m.Suggestions.GetMetrics(),
		"geocodes":    m.Geocodes.GetMetrics(),
		"details":     m.Details.GetMetrics(),
	}
}

// ClearAll clears every cache.
func (m *Manager) ClearAll() {
	m.Suggestions.Clear()
	m.Geocodes.Clear()
	m.Details.Clear()
}
