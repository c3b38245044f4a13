// Package repetition flags entities that repeat a transaction type above a
// frequency threshold within a day. The scans are independent of the chain
// detectors: they count, they do not score.
package repetition

import (
	"sort"

	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

// Detector accumulates per-day counts of same-category transactions per
// party pair across normalized batches. Counts are keyed by (day, debit,
// credit), so a day split across feed batches still merges into one group.
type Detector struct {
	cfg    *config.RepetitionConfig
	counts map[groupKey]*group
}

type groupKey struct {
	category models.ReasonCategory
	day      string
	debit    string
	credit   string
}

type group struct {
	count int
	total decimal.Decimal
}

// NewDetector creates a repetition detector with configured thresholds.
func NewDetector(cfg *config.RepetitionConfig) *Detector {
	return &Detector{
		cfg:    cfg,
		counts: make(map[groupKey]*group),
	}
}

// Scanned categories.
var categories = []models.ReasonCategory{
	models.CategoryMerchantPayment,
	models.CategoryCashIn,
	models.CategoryWalletToBank,
	models.CategoryRedeemPoints,
}

// Observe counts one day bucket's records into the running groups.
func (d *Detector) Observe(day string, records []models.Transaction) {
	for _, txn := range records {
		for _, category := range categories {
			if !txn.Is(category) {
				continue
			}
			k := groupKey{
				category: category,
				day:      day,
				debit:    txn.DebitParty,
				credit:   txn.CreditParty,
			}
			g, ok := d.counts[k]
			if !ok {
				g = &group{}
				d.counts[k] = g
			}
			g.count++
			g.total = g.total.Add(txn.Amount)
		}
	}
}

// Results materializes the groups whose count meets the category's
// threshold, one sorted table per scanned category.
func (d *Detector) Results() Results {
	return Results{
		MerchantPayments: d.table(models.CategoryMerchantPayment, d.cfg.MerchantPaymentMin),
		Cashins:          d.table(models.CategoryCashIn, d.cfg.CashinMin),
		WalletToBank:     d.table(models.CategoryWalletToBank, d.cfg.WalletToBankMin),
		Redeems:          d.table(models.CategoryRedeemPoints, d.cfg.RedeemMin),
	}
}

// Results holds one repeat-offender table per counting scan.
type Results struct {
	MerchantPayments []models.RepetitionGroup
	Cashins          []models.RepetitionGroup
	WalletToBank     []models.RepetitionGroup
	Redeems          []models.RepetitionGroup
}

func (d *Detector) table(category models.ReasonCategory, minCount int) []models.RepetitionGroup {
	var rows []models.RepetitionGroup
	for k, g := range d.counts {
		if k.category != category || g.count < minCount {
			continue
		}
		rows = append(rows, models.RepetitionGroup{
			Day:         k.day,
			DebitParty:  k.debit,
			CreditParty: k.credit,
			Category:    category,
			Count:       g.count,
			TotalAmount: g.total,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Day != rows[j].Day {
			return rows[i].Day < rows[j].Day
		}
		if rows[i].DebitParty != rows[j].DebitParty {
			return rows[i].DebitParty < rows[j].DebitParty
		}
		return rows[i].CreditParty < rows[j].CreditParty
	})
	return rows
}
