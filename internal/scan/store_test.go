package scan

import (
	"testing"

	"github.com/savegress/mobitrace/pkg/models"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()

	id := store.Save(&models.ScanResult{RowsRead: 42})
	if id == "" {
		t.Fatal("expected Save to assign an ID")
	}

	result, ok := store.Get(id)
	if !ok {
		t.Fatal("expected stored scan to be retrievable")
	}
	if result.RowsRead != 42 {
		t.Errorf("expected 42 rows read, got %d", result.RowsRead)
	}
	if result.CreatedAt.IsZero() {
		t.Error("expected Save to assign CreatedAt")
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("expected miss for unknown ID")
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewStore()

	first := store.Save(&models.ScanResult{})
	second := store.Save(&models.ScanResult{})

	metas := store.List()
	if len(metas) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(metas))
	}
	// ties on CreatedAt can order either way; only check both are present
	seen := map[string]bool{metas[0].ID: true, metas[1].ID: true}
	if !seen[first] || !seen[second] {
		t.Errorf("expected both saved scans listed, got %v", metas)
	}
}
