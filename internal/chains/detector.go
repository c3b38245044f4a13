// Package chains finds temporally-ordered, identity-linked transaction
// sequences that match known laundering patterns. Detection is restricted
// to one calendar day per chain, and every qualifying later hop yields its
// own chain instance: overlapping instances are expected output, not
// duplicates to collapse.
package chains

import (
	"sort"
	"time"

	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

// Detector detects and scores multi-hop laundering chains.
type Detector struct {
	weights    config.Weights
	fastWindow time.Duration
	highAmount decimal.Decimal
}

// NewDetector creates a detector from scoring configuration.
func NewDetector(cfg *config.ScoringConfig) (*Detector, error) {
	weights, err := cfg.ResolveWeights()
	if err != nil {
		return nil, err
	}

	return &Detector{
		weights:    weights,
		fastWindow: cfg.FastCashoutWindow,
		highAmount: decimal.NewFromFloat(cfg.HighAmountThreshold),
	}, nil
}

// Weights returns the effective scoring weight table.
func (d *Detector) Weights() config.Weights { return d.weights }

// DetectCashoutChains finds cash-in -> merchant-payment -> cash-out chains
// within one day's records and scores each instance.
//
// For every merchant payment the most recent prior cash-in crediting the
// paying client is the funding hop; a payment with no funding source is
// skipped. Every later cash-out debited to the merchant for exactly the
// payment amount produces a separate chain instance. The amount match is
// exact, with no tolerance.
func (d *Detector) DetectCashoutChains(day string, records []models.Transaction) []models.CashoutChain {
	payments := filterByTime(records, models.CategoryMerchantPayment)
	cashins := filterByTime(records, models.CategoryCashIn)
	cashouts := filterByTime(records, models.CategoryCashOut)

	var found []models.CashoutChain
	for _, payment := range payments {
		client := payment.DebitParty
		merchant := payment.CreditParty

		funding, ok := nearestPriorCashin(cashins, client, payment.Timestamp)
		if !ok {
			continue
		}

		for _, cashout := range cashouts {
			if cashout.DebitParty != merchant {
				continue
			}
			if !cashout.Amount.Equal(payment.Amount) {
				continue
			}
			if !cashout.Timestamp.After(payment.Timestamp) {
				continue
			}

			chain := models.CashoutChain{
				Day:           day,
				Merchant:      merchant,
				Client:        client,
				Distributor:   funding.DebitParty,
				Amount:        payment.Amount,
				CashinTime:    funding.Timestamp,
				PaymentTime:   payment.Timestamp,
				CashoutTime:   cashout.Timestamp,
				CashoutTo:     cashout.CreditParty,
				FundingDelay:  payment.Timestamp.Sub(funding.Timestamp).Minutes(),
				CashoutDelay:  cashout.Timestamp.Sub(payment.Timestamp).Minutes(),
				PaymentReason: payment.Reason,
				CashoutReason: cashout.Reason,
			}
			d.score(&chain)
			found = append(found, chain)
		}
	}

	return found
}

// DetectTransferChains finds cash-in -> wallet-to-bank chains within one
// day's records. Every wallet-to-bank transfer debited to the credited
// client after the cash-in produces a chain instance.
func DetectTransferChains(day string, records []models.Transaction) []models.TransferChain {
	cashins := filterByTime(records, models.CategoryCashIn)
	transfers := filterByTime(records, models.CategoryWalletToBank)

	var found []models.TransferChain
	for _, cashin := range cashins {
		client := cashin.CreditParty

		for _, transfer := range transfers {
			if transfer.DebitParty != client {
				continue
			}
			if !transfer.Timestamp.After(cashin.Timestamp) {
				continue
			}

			found = append(found, models.TransferChain{
				Day:            day,
				Client:         client,
				Agent:          cashin.DebitParty,
				CashinTime:     cashin.Timestamp,
				TransferTime:   transfer.Timestamp,
				Delay:          transfer.Timestamp.Sub(cashin.Timestamp).Minutes(),
				CashinAmount:   cashin.Amount,
				TransferAmount: transfer.Amount,
			})
		}
	}

	return found
}

// DetectRelayChains finds bank-to-wallet -> send-money -> wallet-to-bank
// chains within one day's records. Every full three-hop combination with
// strictly increasing times produces a chain instance.
func DetectRelayChains(day string, records []models.Transaction) []models.RelayChain {
	bankIns := filterByTime(records, models.CategoryBankToWallet)
	sends := filterByTime(records, models.CategorySendMoney)
	bankOuts := filterByTime(records, models.CategoryWalletToBank)

	var found []models.RelayChain
	for _, bankIn := range bankIns {
		sender := bankIn.CreditParty

		for _, send := range sends {
			if send.DebitParty != sender {
				continue
			}
			if !send.Timestamp.After(bankIn.Timestamp) {
				continue
			}
			receiver := send.CreditParty

			for _, bankOut := range bankOuts {
				if bankOut.DebitParty != receiver {
					continue
				}
				if !bankOut.Timestamp.After(send.Timestamp) {
					continue
				}

				found = append(found, models.RelayChain{
					Day:           day,
					Sender:        sender,
					Receiver:      receiver,
					BankInTime:    bankIn.Timestamp,
					SendTime:      send.Timestamp,
					BankOutTime:   bankOut.Timestamp,
					SendDelay:     send.Timestamp.Sub(bankIn.Timestamp).Minutes(),
					ExitDelay:     bankOut.Timestamp.Sub(send.Timestamp).Minutes(),
					BankInAmount:  bankIn.Amount,
					SendAmount:    send.Amount,
					BankOutAmount: bankOut.Amount,
				})
			}
		}
	}

	return found
}

// filterByTime returns the records of one category that carry a valid
// timestamp, in ascending time order. Records with the null timestamp
// sentinel never appear as either endpoint of a temporal join.
func filterByTime(records []models.Transaction, category models.ReasonCategory) []models.Transaction {
	var matched []models.Transaction
	for _, txn := range records {
		if !txn.HasTimestamp() {
			continue
		}
		if txn.Is(category) {
			matched = append(matched, txn)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched
}

// nearestPriorCashin returns the most recent cash-in crediting the client
// strictly before the given time.
func nearestPriorCashin(cashins []models.Transaction, client string, before time.Time) (models.Transaction, bool) {
	var funding models.Transaction
	found := false
	for _, cashin := range cashins {
		if cashin.CreditParty != client {
			continue
		}
		if !cashin.Timestamp.Before(before) {
			continue
		}
		if !found || cashin.Timestamp.After(funding.Timestamp) {
			funding = cashin
			found = true
		}
	}
	return funding, found
}
