package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReasonCategory identifies a known transaction category. Categories are
// matched by substring against the normalized (lowercased, trimmed) reason
// field of a record.
type ReasonCategory string

const (
	CategoryMerchantPayment ReasonCategory = "merchant payment"
	CategoryCashIn          ReasonCategory = "cash in"
	CategoryCashOut         ReasonCategory = "cash out"
	CategoryWalletToBank    ReasonCategory = "w2b"
	CategoryBankToWallet    ReasonCategory = "b2w"
	CategorySendMoney       ReasonCategory = "send money"
	CategoryRedeemPoints    ReasonCategory = "customer redeem point to balance"
)

// Matches reports whether a normalized reason string belongs to the category.
func (c ReasonCategory) Matches(reason string) bool {
	return strings.Contains(reason, string(c))
}

// Transaction is one normalized row of the input feed. Records are immutable
// once ingested. A zero Timestamp is the null sentinel for an unparsable
// date; such records never participate in time-ordered joins and carry an
// empty Day.
type Transaction struct {
	Timestamp   time.Time       `json:"timestamp"`
	Day         string          `json:"day"` // calendar date, "2006-01-02"
	Reason      string          `json:"reason"`
	DebitParty  string          `json:"debit_party"`
	CreditParty string          `json:"credit_party"`
	Amount      decimal.Decimal `json:"amount"`
}

// HasTimestamp reports whether the record's timestamp parsed successfully.
func (t *Transaction) HasTimestamp() bool {
	return !t.Timestamp.IsZero()
}

// Is reports whether the record's reason falls into the given category.
func (t *Transaction) Is(c ReasonCategory) bool {
	return c.Matches(t.Reason)
}

// CashoutChain is a detected cash-in -> merchant-payment -> cash-out
// sequence within one calendar day. This is the only scored chain family.
type CashoutChain struct {
	Day           string          `json:"day"`
	Merchant      string          `json:"merchant"`
	Client        string          `json:"client"`
	Distributor   string          `json:"distributor"` // debit party of the funding cash-in
	Amount        decimal.Decimal `json:"amount"`
	CashinTime    time.Time       `json:"cashin_time"`
	PaymentTime   time.Time       `json:"payment_time"`
	CashoutTime   time.Time       `json:"cashout_time"`
	CashoutTo     string          `json:"cashout_to"`
	FundingDelay  float64         `json:"funding_delay_minutes"` // payment - cash-in
	CashoutDelay  float64         `json:"cashout_delay_minutes"` // cash-out - payment
	PaymentReason string          `json:"payment_reason"`
	CashoutReason string          `json:"cashout_reason"`
	RiskScore     int             `json:"risk_score"`
	Flags         []string        `json:"flags"`
}

// TransferChain is a detected cash-in -> wallet-to-bank sequence within one
// calendar day. Reported unscored.
type TransferChain struct {
	Day            string          `json:"day"`
	Client         string          `json:"client"`
	Agent          string          `json:"agent"` // debit party of the cash-in
	CashinTime     time.Time       `json:"cashin_time"`
	TransferTime   time.Time       `json:"transfer_time"`
	Delay          float64         `json:"delay_minutes"`
	CashinAmount   decimal.Decimal `json:"cashin_amount"`
	TransferAmount decimal.Decimal `json:"transfer_amount"`
}

// RelayChain is a detected bank-to-wallet -> send-money -> wallet-to-bank
// sequence within one calendar day. Reported unscored.
type RelayChain struct {
	Day           string          `json:"day"`
	Sender        string          `json:"sender"`   // credited by the B2W, debits the send-money
	Receiver      string          `json:"receiver"` // credited by the send-money, debits the W2B
	BankInTime    time.Time       `json:"bank_in_time"`
	SendTime      time.Time       `json:"send_time"`
	BankOutTime   time.Time       `json:"bank_out_time"`
	SendDelay     float64         `json:"send_delay_minutes"` // send - bank-in
	ExitDelay     float64         `json:"exit_delay_minutes"` // bank-out - send
	BankInAmount  decimal.Decimal `json:"bank_in_amount"`
	SendAmount    decimal.Decimal `json:"send_amount"`
	BankOutAmount decimal.Decimal `json:"bank_out_amount"`
}

// MerchantDaySummary aggregates scored chains per (day, merchant).
type MerchantDaySummary struct {
	Day         string          `json:"day"`
	Merchant    string          `json:"merchant"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	MeanScore   float64         `json:"mean_score"`
}

// TransferPairSummary aggregates cash-in -> W2B chains per (agent, client).
type TransferPairSummary struct {
	Agent         string          `json:"agent"`
	Client        string          `json:"client"`
	Count         int             `json:"count"`
	CashinTotal   decimal.Decimal `json:"cashin_total"`
	TransferTotal decimal.Decimal `json:"transfer_total"`
	FirstDay      string          `json:"first_day"`
	LastDay       string          `json:"last_day"`
}

// RelayPairSummary aggregates relay chains per (sender, receiver).
type RelayPairSummary struct {
	Sender       string          `json:"sender"`
	Receiver     string          `json:"receiver"`
	Count        int             `json:"count"`
	BankInTotal  decimal.Decimal `json:"bank_in_total"`
	SendTotal    decimal.Decimal `json:"send_total"`
	BankOutTotal decimal.Decimal `json:"bank_out_total"`
	FirstDay     string          `json:"first_day"`
	LastDay      string          `json:"last_day"`
}

// RepetitionGroup is a count of same-category transactions between one
// party pair within one calendar day. Only materialized when the count
// meets the detector's threshold.
type RepetitionGroup struct {
	Day         string          `json:"day"`
	DebitParty  string          `json:"debit_party"`
	CreditParty string          `json:"credit_party"`
	Category    ReasonCategory  `json:"category"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ScanResult holds every table produced by one engine run over a feed.
// ID and CreatedAt are assigned by the scan store, not the engine, so two
// runs over the same feed produce identical detection tables.
type ScanResult struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	RowsRead        int `json:"rows_read"`
	RowsWithoutTime int `json:"rows_without_timestamp"`

	CashoutChains     []CashoutChain       `json:"cashout_chains"`
	MerchantSummaries []MerchantDaySummary `json:"merchant_summaries"`

	TransferChains []TransferChain       `json:"transfer_chains"`
	TransferPairs  []TransferPairSummary `json:"transfer_pairs"`

	RelayChains []RelayChain       `json:"relay_chains"`
	RelayPairs  []RelayPairSummary `json:"relay_pairs"`

	MerchantRepetition []RepetitionGroup `json:"merchant_repetition"`
	CashinRepetition   []RepetitionGroup `json:"cashin_repetition"`
	TransferRepetition []RepetitionGroup `json:"transfer_repetition"`
	RedeemRepetition   []RepetitionGroup `json:"redeem_repetition"`
}

// TotalFindings returns the number of detected chain instances and
// repetition groups across all tables.
func (r *ScanResult) TotalFindings() int {
	return len(r.CashoutChains) + len(r.TransferChains) + len(r.RelayChains) +
		len(r.MerchantRepetition) + len(r.CashinRepetition) +
		len(r.TransferRepetition) + len(r.RedeemRepetition)
}
