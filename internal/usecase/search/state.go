package search

// state is a step of the search degradation path.
type state int

const (
	stateTryFastSemantic state = iota
	stateTryFallbackSemantic
	stateTryKeyword
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateTryFastSemantic:
		return "try_fast_semantic"
	case stateTryFallbackSemantic:
		return "try_fallback_semantic"
	case stateTryKeyword:
		return "try_keyword"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s state) terminal() bool {
	return s == stateDone || s == stateFailed
}
