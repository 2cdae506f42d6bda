package channels

import "github.com/chanstr/chanstr-tui/internal/timeline"

// RouteKind tags what a navigation entry points at.
type RouteKind int

const (
	RouteTimeline RouteKind = iota
	RouteThread
)

// Route is one entry in a channel's navigation stack: the channel timeline
// itself, or a thread opened from it.
type Route struct {
	Kind RouteKind
	Arg  string
}

func TimelineRoute(kind timeline.Kind) Route {
	return Route{Kind: RouteTimeline, Arg: kind.String()}
}

func ThreadRoute(noteID string) Route {
	return Route{Kind: RouteThread, Arg: noteID}
}

// Router is a per-channel navigation stack. The bottom entry is always the
// channel's timeline route.
type Router struct {
	stack []Route
}

func NewRouter(root Route) *Router {
	return &Router{stack: []Route{root}}
}

func (r *Router) Push(route Route) {
	r.stack = append(r.stack, route)
}

// Pop removes the top route. The root timeline route is never popped.
func (r *Router) Pop() (Route, bool) {
	if len(r.stack) <= 1 {
		return Route{}, false
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return top, true
}

func (r *Router) Top() Route {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}
