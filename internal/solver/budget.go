package solver

// Budget bounds the joint search by counting accepted arrangements, never wall time.
type Budget struct {
	// GlobalCeiling and RootCeiling stop a call once both the call-wide and the
	// current root's accepted counts exceed them.
	GlobalCeiling int `json:"globalCeiling" yaml:"globalCeiling"`
	RootCeiling   int `json:"rootCeiling" yaml:"rootCeiling"`
	// Past LengthBase - LengthStep*length accepted arrangements for the current root,
	// a ship gives up after TriesAfterCutoff candidates. Longer ships hit the cutoff sooner.
	LengthBase       int `json:"lengthBase" yaml:"lengthBase"`
	LengthStep       int `json:"lengthStep" yaml:"lengthStep"`
	TriesAfterCutoff int `json:"triesAfterCutoff" yaml:"triesAfterCutoff"`
	// NodeCeiling caps candidates tried per call; 0 means no cap. It bounds positions
	// where no complete arrangement covers every hit and nothing is ever accepted.
	NodeCeiling int `json:"nodeCeiling" yaml:"nodeCeiling"`
}

func DefaultBudget() Budget {
	return Budget{
		GlobalCeiling:    12000,
		RootCeiling:      700,
		LengthBase:       1500,
		LengthStep:       100,
		TriesAfterCutoff: 2,
		NodeCeiling:      500_000,
	}
}

// counters is listed/accounted bookkeeping for one scope (the call, or one root).
type counters struct {
	listed   int
	accepted int
}

func (b Budget) exhausted(global, root counters) bool {
	return global.accepted > b.GlobalCeiling && root.accepted > b.RootCeiling
}

func (b Budget) cutoff(root counters, length, tried int) bool {
	return root.accepted > b.LengthBase-b.LengthStep*length && tried > b.TriesAfterCutoff
}
