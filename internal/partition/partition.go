// Package partition buckets normalized records by calendar day. All
// temporal joins downstream are restricted to same-day events, so the day
// bucket is the unit of work for every detector.
package partition

import (
	"sort"

	"github.com/savegress/mobitrace/pkg/models"
)

// ByDay groups a normalized batch by derived calendar date. Records with a
// null timestamp are excluded from every dated bucket.
func ByDay(batch []models.Transaction) map[string][]models.Transaction {
	buckets := make(map[string][]models.Transaction)
	for _, txn := range batch {
		if !txn.HasTimestamp() {
			continue
		}
		buckets[txn.Day] = append(buckets[txn.Day], txn)
	}
	return buckets
}

// Days returns the distinct dates present in a set of buckets in ascending
// order.
func Days(buckets map[string][]models.Transaction) []string {
	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
