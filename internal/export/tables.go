// Package export renders scan results as flat tables and packages them as
// CSV or as a multi-sheet spreadsheet workbook. It is a presentation
// collaborator around the engine, not part of detection.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/savegress/mobitrace/pkg/models"
)

// Table is one named, rendered result table.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Table names, also used as workbook sheet names.
const (
	TableScoredChains       = "Scored Chains"
	TableMerchantSummary    = "Merchant Summary"
	TableTransferChains     = "Cashin to W2B"
	TableTransferPairs      = "Cashin W2B Pairs"
	TableRelayChains        = "Relay Chains"
	TableRelayPairs         = "Relay Pairs"
	TableMerchantRepetition = "Merchant Repetition"
	TableCashinRepetition   = "Cashin Repetition"
	TableW2BRepetition      = "W2B Repetition"
	TableRedeemRepetition   = "Redeem Repetition"
)

const timeFormat = "2006-01-02 15:04:05"

// Tables renders every table of a scan result in a fixed order.
func Tables(result *models.ScanResult) []Table {
	return []Table{
		scoredChains(result.CashoutChains),
		merchantSummary(result.MerchantSummaries),
		transferChains(result.TransferChains),
		transferPairs(result.TransferPairs),
		relayChains(result.RelayChains),
		relayPairs(result.RelayPairs),
		repetitionTable(TableMerchantRepetition, result.MerchantRepetition),
		repetitionTable(TableCashinRepetition, result.CashinRepetition),
		repetitionTable(TableW2BRepetition, result.TransferRepetition),
		repetitionTable(TableRedeemRepetition, result.RedeemRepetition),
	}
}

// Find returns the named table of a scan result.
func Find(result *models.ScanResult, name string) (Table, bool) {
	for _, table := range Tables(result) {
		if strings.EqualFold(table.Name, name) {
			return table, true
		}
	}
	return Table{}, false
}

func scoredChains(chains []models.CashoutChain) Table {
	t := Table{
		Name: TableScoredChains,
		Headers: []string{
			"date", "merchant", "client", "distributor", "amount",
			"cashin_time", "payment_time", "cashout_time", "cashout_to",
			"funding_delay_minutes", "cashout_delay_minutes",
			"payment_reason", "cashout_reason", "risk_score", "flags",
		},
	}
	for _, c := range chains {
		t.Rows = append(t.Rows, []string{
			c.Day, c.Merchant, c.Client, c.Distributor, c.Amount.String(),
			formatTime(c.CashinTime), formatTime(c.PaymentTime), formatTime(c.CashoutTime), c.CashoutTo,
			formatMinutes(c.FundingDelay), formatMinutes(c.CashoutDelay),
			c.PaymentReason, c.CashoutReason, strconv.Itoa(c.RiskScore), strings.Join(c.Flags, "; "),
		})
	}
	return t
}

func merchantSummary(summaries []models.MerchantDaySummary) Table {
	t := Table{
		Name:    TableMerchantSummary,
		Headers: []string{"date", "merchant", "count", "total_amount", "mean_score"},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.Day, s.Merchant, strconv.Itoa(s.Count), s.TotalAmount.String(),
			strconv.FormatFloat(s.MeanScore, 'f', 2, 64),
		})
	}
	return t
}

func transferChains(chains []models.TransferChain) Table {
	t := Table{
		Name: TableTransferChains,
		Headers: []string{
			"date", "client", "agent", "cashin_time", "transfer_time",
			"delay_minutes", "cashin_amount", "transfer_amount",
		},
	}
	for _, c := range chains {
		t.Rows = append(t.Rows, []string{
			c.Day, c.Client, c.Agent, formatTime(c.CashinTime), formatTime(c.TransferTime),
			formatMinutes(c.Delay), c.CashinAmount.String(), c.TransferAmount.String(),
		})
	}
	return t
}

func transferPairs(pairs []models.TransferPairSummary) Table {
	t := Table{
		Name: TableTransferPairs,
		Headers: []string{
			"agent", "client", "count", "cashin_total", "transfer_total",
			"first_day", "last_day",
		},
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{
			p.Agent, p.Client, strconv.Itoa(p.Count), p.CashinTotal.String(),
			p.TransferTotal.String(), p.FirstDay, p.LastDay,
		})
	}
	return t
}

func relayChains(chains []models.RelayChain) Table {
	t := Table{
		Name: TableRelayChains,
		Headers: []string{
			"date", "sender", "receiver", "bank_in_time", "send_time", "bank_out_time",
			"send_delay_minutes", "exit_delay_minutes",
			"bank_in_amount", "send_amount", "bank_out_amount",
		},
	}
	for _, c := range chains {
		t.Rows = append(t.Rows, []string{
			c.Day, c.Sender, c.Receiver,
			formatTime(c.BankInTime), formatTime(c.SendTime), formatTime(c.BankOutTime),
			formatMinutes(c.SendDelay), formatMinutes(c.ExitDelay),
			c.BankInAmount.String(), c.SendAmount.String(), c.BankOutAmount.String(),
		})
	}
	return t
}

func relayPairs(pairs []models.RelayPairSummary) Table {
	t := Table{
		Name: TableRelayPairs,
		Headers: []string{
			"sender", "receiver", "count", "bank_in_total", "send_total",
			"bank_out_total", "first_day", "last_day",
		},
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{
			p.Sender, p.Receiver, strconv.Itoa(p.Count), p.BankInTotal.String(),
			p.SendTotal.String(), p.BankOutTotal.String(), p.FirstDay, p.LastDay,
		})
	}
	return t
}

func repetitionTable(name string, groups []models.RepetitionGroup) Table {
	t := Table{
		Name:    name,
		Headers: []string{"date", "debit_party", "credit_party", "count", "total_amount"},
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			g.Day, g.DebitParty, g.CreditParty, strconv.Itoa(g.Count), g.TotalAmount.String(),
		})
	}
	return t
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(timeFormat)
}

func formatMinutes(minutes float64) string {
	return fmt.Sprintf("%.2f", minutes)
}
