package chains

import (
	"testing"

	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

func TestSummarizeMerchants(t *testing.T) {
	chains := []models.CashoutChain{
		{Day: "2025-06-01", Merchant: "M1", Amount: decimal.NewFromInt(1000), RiskScore: 40},
		{Day: "2025-06-01", Merchant: "M1", Amount: decimal.NewFromInt(2000), RiskScore: 120},
		{Day: "2025-06-01", Merchant: "M2", Amount: decimal.NewFromInt(500), RiskScore: 10},
		{Day: "2025-06-02", Merchant: "M1", Amount: decimal.NewFromInt(300), RiskScore: 70},
	}

	summaries := SummarizeMerchants(chains)
	if len(summaries) != 3 {
		t.Fatalf("expected 3 (day, merchant) groups, got %d", len(summaries))
	}

	first := summaries[0]
	if first.Day != "2025-06-01" || first.Merchant != "M1" {
		t.Fatalf("expected sorted output starting with 2025-06-01/M1, got %s/%s", first.Day, first.Merchant)
	}
	if first.Count != 2 {
		t.Errorf("expected count 2, got %d", first.Count)
	}
	if got := first.TotalAmount.String(); got != "3000" {
		t.Errorf("expected total 3000, got %s", got)
	}
	if first.MeanScore != 80 {
		t.Errorf("expected mean score 80, got %f", first.MeanScore)
	}

	if summaries[2].Day != "2025-06-02" {
		t.Errorf("expected last group on 2025-06-02, got %s", summaries[2].Day)
	}
}

func TestSummarizeTransferPairs(t *testing.T) {
	chains := []models.TransferChain{
		{Day: "2025-06-03", Agent: "A1", Client: "C1", CashinAmount: decimal.NewFromInt(100), TransferAmount: decimal.NewFromInt(90)},
		{Day: "2025-06-01", Agent: "A1", Client: "C1", CashinAmount: decimal.NewFromInt(200), TransferAmount: decimal.NewFromInt(180)},
		{Day: "2025-06-02", Agent: "A2", Client: "C1", CashinAmount: decimal.NewFromInt(50), TransferAmount: decimal.NewFromInt(50)},
	}

	summaries := SummarizeTransferPairs(chains)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(summaries))
	}

	pair := summaries[0]
	if pair.Agent != "A1" || pair.Client != "C1" {
		t.Fatalf("expected pair A1/C1 first, got %s/%s", pair.Agent, pair.Client)
	}
	if pair.Count != 2 {
		t.Errorf("expected count 2, got %d", pair.Count)
	}
	if got := pair.CashinTotal.String(); got != "300" {
		t.Errorf("expected cash-in total 300, got %s", got)
	}
	if got := pair.TransferTotal.String(); got != "270" {
		t.Errorf("expected transfer total 270, got %s", got)
	}
	if pair.FirstDay != "2025-06-01" || pair.LastDay != "2025-06-03" {
		t.Errorf("expected first/last days 2025-06-01/2025-06-03, got %s/%s", pair.FirstDay, pair.LastDay)
	}
}

func TestSummarizeRelayPairs(t *testing.T) {
	chains := []models.RelayChain{
		{Day: "2025-06-01", Sender: "S1", Receiver: "R1",
			BankInAmount: decimal.NewFromInt(1000), SendAmount: decimal.NewFromInt(900), BankOutAmount: decimal.NewFromInt(800)},
		{Day: "2025-06-02", Sender: "S1", Receiver: "R1",
			BankInAmount: decimal.NewFromInt(100), SendAmount: decimal.NewFromInt(90), BankOutAmount: decimal.NewFromInt(80)},
	}

	summaries := SummarizeRelayPairs(chains)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(summaries))
	}
	pair := summaries[0]
	if pair.Count != 2 {
		t.Errorf("expected count 2, got %d", pair.Count)
	}
	if got := pair.BankInTotal.String(); got != "1100" {
		t.Errorf("expected bank-in total 1100, got %s", got)
	}
	if got := pair.SendTotal.String(); got != "990" {
		t.Errorf("expected send total 990, got %s", got)
	}
	if got := pair.BankOutTotal.String(); got != "880" {
		t.Errorf("expected bank-out total 880, got %s", got)
	}
	if pair.FirstDay != "2025-06-01" || pair.LastDay != "2025-06-02" {
		t.Errorf("unexpected first/last days %s/%s", pair.FirstDay, pair.LastDay)
	}
}

func TestChainVolume(t *testing.T) {
	chains := []models.CashoutChain{
		{Amount: decimal.NewFromInt(25000)},
		{Amount: decimal.RequireFromString("0.5")},
	}
	if got := ChainVolume(chains).String(); got != "25000.5" {
		t.Errorf("expected 25000.5, got %s", got)
	}
	if !ChainVolume(nil).IsZero() {
		t.Error("expected zero volume for no chains")
	}
}
