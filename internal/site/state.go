package site

// State is the position of a Repository in the build pipeline. States only
// move forward.
type State int

const (
	StateUnparsed State = iota
	StateParsed
	StateSkeletonBuilt
	StateConverted
	StateExcerptsAttached
	StateIndexWritten
	StateAssetsMinified
	StateFeedWritten
	StateDone
)

var stateNames = [...]string{
	StateUnparsed:         "unparsed",
	StateParsed:           "parsed",
	StateSkeletonBuilt:    "skeleton_built",
	StateConverted:        "converted",
	StateExcerptsAttached: "excerpts_attached",
	StateIndexWritten:     "index_written",
	StateAssetsMinified:   "assets_minified",
	StateFeedWritten:      "feed_written",
	StateDone:             "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
