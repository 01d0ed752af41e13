package player

// Adapter republishes an Element's events as State updates. It only accepts
// values the element reports.
type Adapter struct {
	el    Element
	state State
}

// NewAdapter wraps el. initial usually comes from InitialState with the
// user's saved volume and rate applied.
func NewAdapter(el Element, initial State) *Adapter {
	return &Adapter{el: el, state: initial}
}

// State returns the current snapshot.
func (a *Adapter) State() State { return a.state }

// Element returns the wrapped element.
func (a *Adapter) Element() Element { return a.el }

// Events is the element's event stream.
func (a *Adapter) Events() <-chan Event { return a.el.Events() }

// Apply folds ev into the state and returns the result.
func (a *Adapter) Apply(ev Event) State {
	a.state = Reduce(a.state, ev)
	return a.state
}

// Reset clears transient playback fields, keeping volume, mute and rate.
func (a *Adapter) Reset() {
	s := a.state
	s.Ready = false
	s.Playing = false
	s.CurrentTime = 0
	s.Duration = 0
	s.DurationKnown = false
	s.LastError = ""
	s.LoadFailed = false
	a.state = s
}

func (a *Adapter) update(fn func(*State)) {
	fn(&a.state)
	a.state = clampPosition(a.state)
}
