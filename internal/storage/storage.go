package storage

import (
	"errors"

	"mspec/internal/config"
	"mspec/internal/domain"
)

// ErrNoRuns is returned by Load when no run has been stored yet
var ErrNoRuns = errors.New("no stored runs")

// Storage persists and loads run reports (e.g. for the failures viewer).
type Storage interface {
	Save(report *domain.RunReport) error
	Load() (*domain.RunReport, error)
	// Update writes back the resolved flags of a loaded report.
	Update(report *domain.RunReport) error
}

// JSONStorage stores the last run in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Open picks the storage for cfg: MySQL run history when a DSN is configured,
// the JSON file otherwise.
func Open(cfg *config.Config) (Storage, func() error, error) {
	dsn := cfg.GetResultsDSN()
	if dsn == "" {
		return NewJSONStorage(cfg), func() error { return nil }, nil
	}
	st, err := NewMySQLStorage(dsn)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}
