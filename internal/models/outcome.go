package models

// Outcome is what the executor did with a signal.
type Outcome string

const (
	OutcomeSubmitted         Outcome = "submitted"
	OutcomeDryRun            Outcome = "dry_run"
	OutcomeInsufficientFunds Outcome = "insufficient_funds"
	OutcomeAlreadyHeld       Outcome = "already_held"
	OutcomeNothingHeld       Outcome = "nothing_held"
)

// Traded reports whether an order was (or in dry run would have been) sent.
func (o Outcome) Traded() bool {
	return o == OutcomeSubmitted || o == OutcomeDryRun
}
