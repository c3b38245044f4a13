package chains

import (
	"testing"
	"time"

	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

func scoredChain(amount int64, cashoutDelay time.Duration, client, distributor, cashoutTo string) models.CashoutChain {
	payment := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return models.CashoutChain{
		Day:         "2025-06-01",
		Merchant:    "MERCH1",
		Client:      client,
		Distributor: distributor,
		CashoutTo:   cashoutTo,
		Amount:      decimal.NewFromInt(amount),
		PaymentTime: payment,
		CashoutTime: payment.Add(cashoutDelay),
	}
}

func TestScoreBaselineWhenNoRuleFires(t *testing.T) {
	d := newTestDetector(t, "base")

	chain := scoredChain(500, 30*time.Minute, "CLIENT1", "DIST1", "OTHER")
	d.score(&chain)

	if chain.RiskScore != 10 {
		t.Errorf("expected baseline score 10, got %d", chain.RiskScore)
	}
	if len(chain.Flags) != 1 || chain.Flags[0] != FlagUnusualActivity {
		t.Errorf("expected only the %q flag, got %v", FlagUnusualActivity, chain.Flags)
	}
}

func TestScoreAllRulesBase(t *testing.T) {
	d := newTestDetector(t, "base")

	// client and distributor are the same party receiving the cash-out,
	// so all four rules fire at once
	chain := scoredChain(20000, 5*time.Minute, "SAME", "SAME", "SAME")
	d.score(&chain)

	if chain.RiskScore != 150 {
		t.Errorf("expected 40+30+30+50=150, got %d", chain.RiskScore)
	}
	if len(chain.Flags) != 4 {
		t.Errorf("expected 4 flags, got %v", chain.Flags)
	}
	if hasFlag(chain.Flags, FlagUnusualActivity) {
		t.Error("baseline flag must not appear when rules fire")
	}
}

func TestScoreAllRulesEscalated(t *testing.T) {
	d := newTestDetector(t, "escalated")

	chain := scoredChain(20000, 5*time.Minute, "SAME", "SAME", "SAME")
	d.score(&chain)

	if chain.RiskScore != 260 {
		t.Errorf("expected 40+90+30+100=260, got %d", chain.RiskScore)
	}
}

func TestScoreBoundaries(t *testing.T) {
	d := newTestDetector(t, "base")

	// cash-out exactly at the window edge is not fast
	atWindow := scoredChain(500, 10*time.Minute, "CLIENT1", "DIST1", "OTHER")
	d.score(&atWindow)
	if hasFlag(atWindow.Flags, FlagFastCashout) {
		t.Error("delay equal to the window must not count as fast")
	}

	// amount exactly at the threshold is high
	atThreshold := scoredChain(20000, 30*time.Minute, "CLIENT1", "DIST1", "OTHER")
	d.score(&atThreshold)
	if !hasFlag(atThreshold.Flags, FlagHighAmount) {
		t.Error("amount equal to the threshold must count as high")
	}
	if atThreshold.RiskScore != 30 {
		t.Errorf("expected high-amount score 30, got %d", atThreshold.RiskScore)
	}
}
