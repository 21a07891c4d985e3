package session

import (
	"errors"
	"fmt"

	domainauth "github.com/target/trash-classifier/internal/domain/auth"
)

// Event is a navigation command raised by a user action.
type Event string

const (
	EventSelectPublic     Event = "select-public"
	EventSelectGovernment Event = "select-government"
	EventSelectIndustry   Event = "select-industry"
	EventLoginSucceeded   Event = "login-succeeded"
	EventLoginFailed      Event = "login-failed"
	EventReturnHome       Event = "return-home"
)

// ErrIllegalTransition is returned when an event has no edge from the current page.
var ErrIllegalTransition = errors.New("illegal page transition")

// Transition records one applied edge for logging and metrics.
type Transition struct {
	Event Event
	From  Page
	To    Page
}

// String implements fmt.Stringer.
func (t Transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.From, t.Event, t.To)
}

// edge describes the target page and role effect of an event.
type edge struct {
	to   Page
	role func(domainauth.Role) domainauth.Role
}

func keepRole(r domainauth.Role) domainauth.Role { return r }
func clearRole(domainauth.Role) domainauth.Role  { return domainauth.RoleNone }
func setRole(r domainauth.Role) func(domainauth.Role) domainauth.Role {
	return func(domainauth.Role) domainauth.Role { return r }
}

// returnHome is available from every page except Home itself.
var returnHome = edge{to: PageHome, role: clearRole}

// transitions is the complete edge table. LoginSucceeded is resolved per role in Apply.
//
//nolint:gochecknoglobals // static read-only transition table
var transitions = map[Page]map[Event]edge{
	PageHome: {
		EventSelectPublic:     {to: PagePublic, role: clearRole},
		EventSelectGovernment: {to: PageLogin, role: setRole(domainauth.RoleGovernment)},
		EventSelectIndustry:   {to: PageLogin, role: setRole(domainauth.RoleIndustry)},
	},
	PageLogin: {
		EventLoginSucceeded: {role: keepRole},
		EventLoginFailed:    {to: PageLogin, role: keepRole},
		EventReturnHome:     returnHome,
	},
	PagePublic: {
		EventReturnHome: returnHome,
	},
	PageGovernmentDashboard: {
		EventReturnHome: returnHome,
	},
	PageIndustryDashboard: {
		EventReturnHome: returnHome,
	},
}

// Allowed reports whether ev has an edge from p.
func Allowed(p Page, ev Event) bool {
	_, ok := transitions[p][ev]
	return ok
}

// Apply runs ev against s and returns the new session plus the edge taken.
// On error s is returned unchanged.
func Apply(s Session, ev Event) (Session, Transition, error) {
	e, ok := transitions[s.Page][ev]
	if !ok {
		return s, Transition{}, fmt.Errorf("%w: %q on page %q", ErrIllegalTransition, ev, s.Page)
	}

	next := s
	next.Role = e.role(s.Role)
	next.Page = e.to
	if ev == EventLoginSucceeded {
		dash, found := DashboardFor(s.Role)
		if !found {
			return s, Transition{}, fmt.Errorf("%w: login without role", ErrIllegalTransition)
		}
		next.Page = dash
	}
	if err := next.Validate(); err != nil {
		return s, Transition{}, err
	}
	return next, Transition{Event: ev, From: s.Page, To: next.Page}, nil
}
