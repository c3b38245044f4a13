package scan

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/savegress/mobitrace/pkg/models"
)

// Store keeps completed scan results in memory for the presentation
// layer. Results are immutable once saved.
type Store struct {
	mu    sync.RWMutex
	scans map[string]*models.ScanResult
}

// NewStore creates an empty scan store.
func NewStore() *Store {
	return &Store{
		scans: make(map[string]*models.ScanResult),
	}
}

// Save assigns the result an identifier and timestamp and stores it.
// Identity lives here rather than in the engine, so engine output stays
// deterministic for identical feeds.
func (s *Store) Save(result *models.ScanResult) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result.ID = uuid.NewString()
	result.CreatedAt = time.Now().UTC()
	s.scans[result.ID] = result
	return result.ID
}

// Get retrieves a scan result by ID.
func (s *Store) Get(id string) (*models.ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	return result, ok
}

// Meta is a listing row for one stored scan.
type Meta struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	RowsRead      int       `json:"rows_read"`
	TotalFindings int       `json:"total_findings"`
}

// List returns metadata for all stored scans, newest first.
func (s *Store) List() []Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]Meta, 0, len(s.scans))
	for _, result := range s.scans {
		metas = append(metas, Meta{
			ID:            result.ID,
			CreatedAt:     result.CreatedAt,
			RowsRead:      result.RowsRead,
			TotalFindings: result.TotalFindings(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas
}
