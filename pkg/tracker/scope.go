package tracker

// Scope is the lifetime of a custom variable.
type Scope int

const (
	// ScopeVisit variables persist for the tracker's lifetime and in the cvar cookie.
	ScopeVisit Scope = iota + 1
	// ScopePage variables are sent with the next request only.
	ScopePage
	// ScopeEvent variables are sent with the next request only, as e_cvar.
	ScopeEvent
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeVisit, ScopePage, ScopeEvent:
		return true
	}
	return false
}

func (s Scope) String() string {
	switch s {
	case ScopeVisit:
		return "visit"
	case ScopePage:
		return "page"
	case ScopeEvent:
		return "event"
	}
	return "unknown"
}
