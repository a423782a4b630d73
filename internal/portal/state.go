package portal

// State is a step of the search workflow.
type State int

const (
	StateInit State = iota
	StateValidated
	StatePageLoaded
	StateSearchModeSelected
	StateIdentifierEntered
	StateAwaitingHumanCaptcha
	StateResultsLoaded
	StateExtracted
	StateListingResolved
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:                 "init",
	StateValidated:            "validated",
	StatePageLoaded:           "page_loaded",
	StateSearchModeSelected:   "search_mode_selected",
	StateIdentifierEntered:    "identifier_entered",
	StateAwaitingHumanCaptcha: "awaiting_human_captcha",
	StateResultsLoaded:        "results_loaded",
	StateExtracted:            "extracted",
	StateListingResolved:      "listing_resolved",
	StateDone:                 "done",
	StateFailed:               "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
