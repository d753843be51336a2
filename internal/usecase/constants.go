package usecase

import "time"

const (
	// DefaultAmountEpsilon is the currency minor-unit tolerance used when
	// comparing bank transaction amounts to settlement amounts. Overridden
	// by configuration for non-penny currencies.
	DefaultAmountEpsilon = "0.01"

	// suggestionDateWindow bounds how far a candidate's date may drift from
	// the bank transaction before its date score reaches zero.
	suggestionDateWindow = 30 * 24 * time.Hour

	// Match score weighting: amounts matter more than dates.
	amountScoreWeight = 0.7
	dateScoreWeight   = 0.3
)
