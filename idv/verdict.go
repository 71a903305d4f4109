package idv

// IDV requirement levels stored per channel.
const (
	LevelOff      = 0
	LevelRequired = 1
	LevelUnder18  = 2
)

// Verdict is the classified identity-verification status for a user.
type Verdict int

const (
	// NotEligible covers unverified users, unknown statuses and failed
	// lookups.
	NotEligible Verdict = iota
	// EligibleOver18 passed verification but is outside the under-18
	// category.
	EligibleOver18
	// Eligible passed verification in the under-18 category.
	Eligible
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "verified_eligible"
	case EligibleOver18:
		return "verified_but_over_18"
	default:
		return "not_eligible"
	}
}

// MeetsLevel reports whether a verdict satisfies the channel's requirement.
// Level 1 accepts any verified user; level 2 only the under-18 category.
func MeetsLevel(v Verdict, level int) bool {
	switch level {
	case LevelRequired:
		return v == Eligible || v == EligibleOver18
	case LevelUnder18:
		return v == Eligible
	default:
		return true
	}
}
