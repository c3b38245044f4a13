package chains

import "github.com/savegress/mobitrace/pkg/models"

// Flags attached to scored chain instances.
const (
	FlagFastCashout       = "fast cash-out"
	FlagHighAmount        = "high amount"
	FlagClientIsRecipient = "client equals cash-out recipient"
	FlagSameDistributor   = "same in/out distributor"
	FlagUnusualActivity   = "unusual activity"
)

// score assigns the additive risk score and flag list to a cash-out chain.
// Scoring never fails: when no rule fires the chain gets the baseline
// score and the unusual-activity flag, so every instance carries a
// non-zero score and at least one flag.
func (d *Detector) score(chain *models.CashoutChain) {
	score := 0
	var flags []string

	if chain.CashoutTime.Sub(chain.PaymentTime) < d.fastWindow {
		score += d.weights.FastCashout
		flags = append(flags, FlagFastCashout)
	}
	if chain.Amount.GreaterThanOrEqual(d.highAmount) {
		score += d.weights.HighAmount
		flags = append(flags, FlagHighAmount)
	}
	if chain.Client == chain.CashoutTo {
		score += d.weights.ClientIsRecipient
		flags = append(flags, FlagClientIsRecipient)
	}
	if chain.Distributor == chain.CashoutTo {
		score += d.weights.SameDistributor
		flags = append(flags, FlagSameDistributor)
	}

	if score == 0 {
		score = d.weights.Baseline
		flags = append(flags, FlagUnusualActivity)
	}

	chain.RiskScore = score
	chain.Flags = flags
}
