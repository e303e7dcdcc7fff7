package arena

// Outcome is the terminal result of an episode. Exactly one outcome is
// reported, on the terminating tick.
type Outcome int

const (
	OutcomeNone Outcome = iota // episode still running
	OutcomeWin                 // bot destroyed
	OutcomeLoss                // player destroyed
	OutcomeDraw                // both destroyed on the same tick
	OutcomeTruncated           // step limit reached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeDraw:
		return "draw"
	case OutcomeTruncated:
		return "truncated"
	case OutcomeNone:
		return "none"
	default:
		return "unknown"
	}
}
