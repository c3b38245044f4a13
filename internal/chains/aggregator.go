package chains

import (
	"sort"

	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

// SummarizeMerchants groups scored chains by (day, merchant) and computes
// count, total amount and mean risk score per group. Output rows are
// sorted by day then merchant so repeated runs produce identical tables.
func SummarizeMerchants(chains []models.CashoutChain) []models.MerchantDaySummary {
	type key struct {
		day      string
		merchant string
	}

	groups := make(map[key]*models.MerchantDaySummary)
	scoreTotals := make(map[key]int)

	for _, chain := range chains {
		k := key{day: chain.Day, merchant: chain.Merchant}
		summary, ok := groups[k]
		if !ok {
			summary = &models.MerchantDaySummary{Day: chain.Day, Merchant: chain.Merchant}
			groups[k] = summary
		}
		summary.Count++
		summary.TotalAmount = summary.TotalAmount.Add(chain.Amount)
		scoreTotals[k] += chain.RiskScore
	}

	summaries := make([]models.MerchantDaySummary, 0, len(groups))
	for k, summary := range groups {
		summary.MeanScore = float64(scoreTotals[k]) / float64(summary.Count)
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Day != summaries[j].Day {
			return summaries[i].Day < summaries[j].Day
		}
		return summaries[i].Merchant < summaries[j].Merchant
	})
	return summaries
}

// SummarizeTransferPairs groups cash-in -> W2B chains by (agent, client)
// across the whole feed, keeping per-hop totals and the first and last
// occurrence dates.
func SummarizeTransferPairs(chains []models.TransferChain) []models.TransferPairSummary {
	type key struct {
		agent  string
		client string
	}

	groups := make(map[key]*models.TransferPairSummary)
	for _, chain := range chains {
		k := key{agent: chain.Agent, client: chain.Client}
		summary, ok := groups[k]
		if !ok {
			summary = &models.TransferPairSummary{
				Agent:    chain.Agent,
				Client:   chain.Client,
				FirstDay: chain.Day,
				LastDay:  chain.Day,
			}
			groups[k] = summary
		}
		summary.Count++
		summary.CashinTotal = summary.CashinTotal.Add(chain.CashinAmount)
		summary.TransferTotal = summary.TransferTotal.Add(chain.TransferAmount)
		if chain.Day < summary.FirstDay {
			summary.FirstDay = chain.Day
		}
		if chain.Day > summary.LastDay {
			summary.LastDay = chain.Day
		}
	}

	summaries := make([]models.TransferPairSummary, 0, len(groups))
	for _, summary := range groups {
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Agent != summaries[j].Agent {
			return summaries[i].Agent < summaries[j].Agent
		}
		return summaries[i].Client < summaries[j].Client
	})
	return summaries
}

// SummarizeRelayPairs groups relay chains by (sender, receiver) across the
// whole feed, keeping per-hop totals and the first and last occurrence
// dates.
func SummarizeRelayPairs(chains []models.RelayChain) []models.RelayPairSummary {
	type key struct {
		sender   string
		receiver string
	}

	groups := make(map[key]*models.RelayPairSummary)
	for _, chain := range chains {
		k := key{sender: chain.Sender, receiver: chain.Receiver}
		summary, ok := groups[k]
		if !ok {
			summary = &models.RelayPairSummary{
				Sender:   chain.Sender,
				Receiver: chain.Receiver,
				FirstDay: chain.Day,
				LastDay:  chain.Day,
			}
			groups[k] = summary
		}
		summary.Count++
		summary.BankInTotal = summary.BankInTotal.Add(chain.BankInAmount)
		summary.SendTotal = summary.SendTotal.Add(chain.SendAmount)
		summary.BankOutTotal = summary.BankOutTotal.Add(chain.BankOutAmount)
		if chain.Day < summary.FirstDay {
			summary.FirstDay = chain.Day
		}
		if chain.Day > summary.LastDay {
			summary.LastDay = chain.Day
		}
	}

	summaries := make([]models.RelayPairSummary, 0, len(groups))
	for _, summary := range groups {
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Sender != summaries[j].Sender {
			return summaries[i].Sender < summaries[j].Sender
		}
		return summaries[i].Receiver < summaries[j].Receiver
	})
	return summaries
}

// ChainVolume sums the matched amount across scored chains.
func ChainVolume(chains []models.CashoutChain) decimal.Decimal {
	total := decimal.Zero
	for _, chain := range chains {
		total = total.Add(chain.Amount)
	}
	return total
}
