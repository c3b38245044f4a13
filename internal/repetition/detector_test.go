package repetition

import (
	"testing"

	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

func testConfig() *config.RepetitionConfig {
	return &config.RepetitionConfig{
		MerchantPaymentMin: 3,
		CashinMin:          2,
		WalletToBankMin:    2,
		RedeemMin:          2,
	}
}

func record(reason, debit, credit string, amount int64) models.Transaction {
	return models.Transaction{
		Reason:      reason,
		DebitParty:  debit,
		CreditParty: credit,
		Amount:      decimal.NewFromInt(amount),
	}
}

func TestMerchantPaymentThreshold(t *testing.T) {
	d := NewDetector(testConfig())

	d.Observe("2025-06-01", []models.Transaction{
		record("merchant payment", "C1", "M1", 100),
		record("merchant payment", "C1", "M1", 200),
		record("merchant payment", "C1", "M1", 300),
		record("merchant payment", "C2", "M1", 100),
		record("merchant payment", "C2", "M1", 100),
	})

	results := d.Results()
	if len(results.MerchantPayments) != 1 {
		t.Fatalf("expected only the 3-repeat pair, got %d groups", len(results.MerchantPayments))
	}
	g := results.MerchantPayments[0]
	if g.DebitParty != "C1" || g.CreditParty != "M1" {
		t.Errorf("unexpected pair %s/%s", g.DebitParty, g.CreditParty)
	}
	if g.Count != 3 {
		t.Errorf("expected count 3, got %d", g.Count)
	}
	if got := g.TotalAmount.String(); got != "600" {
		t.Errorf("expected total 600, got %s", got)
	}
}

func TestCashinThreshold(t *testing.T) {
	d := NewDetector(testConfig())

	d.Observe("2025-06-01", []models.Transaction{
		record("cash in", "A1", "C1", 500),
		record("cash in", "A1", "C1", 500),
		record("cash in", "A2", "C1", 500),
	})

	results := d.Results()
	if len(results.Cashins) != 1 {
		t.Fatalf("expected one 2-repeat cash-in pair, got %d", len(results.Cashins))
	}
	if results.Cashins[0].Count != 2 {
		t.Errorf("expected count 2, got %d", results.Cashins[0].Count)
	}
}

func TestCountsMergeAcrossBatches(t *testing.T) {
	d := NewDetector(testConfig())

	// the same day split across two feed batches still forms one group
	d.Observe("2025-06-01", []models.Transaction{
		record("merchant payment", "C1", "M1", 100),
		record("merchant payment", "C1", "M1", 100),
	})
	d.Observe("2025-06-01", []models.Transaction{
		record("merchant payment", "C1", "M1", 100),
	})

	results := d.Results()
	if len(results.MerchantPayments) != 1 {
		t.Fatalf("expected a single merged group, got %d", len(results.MerchantPayments))
	}
	if results.MerchantPayments[0].Count != 3 {
		t.Errorf("expected merged count 3, got %d", results.MerchantPayments[0].Count)
	}
}

func TestDaysCountSeparately(t *testing.T) {
	d := NewDetector(testConfig())

	d.Observe("2025-06-01", []models.Transaction{
		record("w2b transfer", "C1", "B1", 100),
	})
	d.Observe("2025-06-02", []models.Transaction{
		record("w2b transfer", "C1", "B1", 100),
	})

	if got := d.Results().WalletToBank; len(got) != 0 {
		t.Errorf("expected no groups when repeats span different days, got %d", len(got))
	}
}

func TestRedeemScan(t *testing.T) {
	d := NewDetector(testConfig())

	d.Observe("2025-06-01", []models.Transaction{
		record("customer redeem point to balance", "C1", "C1", 50),
		record("customer redeem point to balance", "C1", "C1", 50),
	})

	results := d.Results()
	if len(results.Redeems) != 1 {
		t.Fatalf("expected one redeem group, got %d", len(results.Redeems))
	}
	if results.Redeems[0].Category != models.CategoryRedeemPoints {
		t.Errorf("unexpected category %s", results.Redeems[0].Category)
	}
}

func TestResultsSorted(t *testing.T) {
	d := NewDetector(testConfig())

	d.Observe("2025-06-02", []models.Transaction{
		record("cash in", "A2", "C1", 10),
		record("cash in", "A2", "C1", 10),
	})
	d.Observe("2025-06-01", []models.Transaction{
		record("cash in", "A1", "C1", 10),
		record("cash in", "A1", "C1", 10),
	})

	got := d.Results().Cashins
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Day != "2025-06-01" || got[1].Day != "2025-06-02" {
		t.Errorf("expected day-sorted groups, got %s then %s", got[0].Day, got[1].Day)
	}
}
