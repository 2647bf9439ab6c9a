// Package route models where the user is within the application as an
// explicit stack of routes. The stack always holds at least one route; the
// bottom entry is the home screen and cannot be popped.
package route

// ViewID identifies a logical screen.
type ViewID string

const (
	Home           ViewID = "home"
	Search         ViewID = "search"
	Tracks         ViewID = "tracks"
	Albums         ViewID = "albums"
	Artists        ViewID = "artists"
	Episodes       ViewID = "episodes"
	Playlists      ViewID = "playlists"
	RecentlyPlayed ViewID = "recently-played"
	Devices        ViewID = "devices"
	Error          ViewID = "error"
)

// Focus identifies which sub-panel of a screen has keyboard focus.
type Focus string

const (
	FocusEmpty    Focus = "empty"
	FocusLibrary  Focus = "library"
	FocusInput    Focus = "input"
	FocusTracks   Focus = "tracks"
	FocusAlbums   Focus = "albums"
	FocusArtists  Focus = "artists"
	FocusEpisodes Focus = "episodes"
	FocusRecent   Focus = "recent"
	FocusDevices  Focus = "devices"
	FocusPlayBar  Focus = "playbar"
	FocusError    Focus = "error"
)

// Route is one entry of the navigation stack.
type Route struct {
	ID      ViewID
	Active  Focus
	Hovered Focus
}

var defaultRoute = Route{ID: Home, Active: FocusEmpty, Hovered: FocusLibrary}

// Stack is a never-empty stack of routes. The zero value is not usable; use
// NewStack.
type Stack struct {
	routes []Route
}

// NewStack returns a stack holding the default home route.
func NewStack() *Stack {
	return &Stack{routes: []Route{defaultRoute}}
}

// Len reports the stack depth.
func (s *Stack) Len() int {
	return len(s.routes)
}

// Push appends a route for the given view. Pushing the view that is already
// on top is a no-op, so repeated drill-downs into the same screen do not
// stack duplicates.
func (s *Stack) Push(id ViewID, active Focus) {
	if s.Current().ID == id {
		return
	}
	s.routes = append(s.routes, Route{ID: id, Active: active, Hovered: active})
}

// Pop removes and returns the top route. The bottom route is never removed;
// popping it reports false and leaves the stack untouched, which callers use
// as the "nothing left to back out of" signal.
func (s *Stack) Pop() (Route, bool) {
	if len(s.routes) <= 1 {
		return Route{}, false
	}
	top := s.routes[len(s.routes)-1]
	s.routes = s.routes[:len(s.routes)-1]
	return top, true
}

// Current returns the top route.
func (s *Stack) Current() Route {
	if len(s.routes) == 0 {
		return defaultRoute
	}
	return s.routes[len(s.routes)-1]
}

// SetState overwrites the active and/or hovered focus of the top route.
// Nil fields are left untouched.
func (s *Stack) SetState(active, hovered *Focus) {
	if len(s.routes) == 0 {
		return
	}
	top := &s.routes[len(s.routes)-1]
	if active != nil {
		top.Active = *active
	}
	if hovered != nil {
		top.Hovered = *hovered
	}
}

// Routes returns a copy of the stack from bottom to top.
func (s *Stack) Routes() []Route {
	dup := make([]Route, len(s.routes))
	copy(dup, s.routes)
	return dup
}
