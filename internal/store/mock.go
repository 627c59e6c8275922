package store

import (
	"sync"

	"fjacquet/bilanci/internal/models"
)

// MockAnalysisStore is an in-memory AnalysisRepository for testing.
type MockAnalysisStore struct {
	mu       sync.Mutex
	Analysis *models.Analysis
	Saves    int

	// Error flags for testing error conditions
	SaveError error
	LastError error
}

// Save keeps a in memory.
func (m *MockAnalysisStore) Save(a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Analysis = a
	m.Saves++
	return nil
}

// Last returns the analysis saved most recently.
func (m *MockAnalysisStore) Last() (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LastError != nil {
		return nil, m.LastError
	}
	if m.Analysis == nil {
		return nil, ErrNoAnalysis
	}
	return m.Analysis, nil
}
