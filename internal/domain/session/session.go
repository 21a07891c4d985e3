// Package session models the per-browser navigation state: which page is
// showing, which gated role was chosen and the waste entries recorded so far.
// Every change goes through Apply or AddEntry, which return a new value.
package session

import (
	"errors"
	"fmt"
	"time"

	domainauth "github.com/target/trash-classifier/internal/domain/auth"
	"github.com/target/trash-classifier/internal/domain/waste"
)

// Page is the closed set of pages a session can be on.
type Page string

const (
	PageHome                Page = "home"
	PageLogin               Page = "login"
	PagePublic              Page = "public"
	PageGovernmentDashboard Page = "government-dashboard"
	PageIndustryDashboard   Page = "industry-dashboard"
)

// Pages returns every page value.
func Pages() []Page {
	return []Page{PageHome, PageLogin, PagePublic, PageGovernmentDashboard, PageIndustryDashboard}
}

// Valid reports whether p is one of the five pages.
func (p Page) Valid() bool {
	switch p {
	case PageHome, PageLogin, PagePublic, PageGovernmentDashboard, PageIndustryDashboard:
		return true
	default:
		return false
	}
}

// RequiresRole reports whether a session on p must carry a role.
func (p Page) RequiresRole() bool {
	return p == PageLogin || p == PageGovernmentDashboard || p == PageIndustryDashboard
}

// Title returns the page heading.
func (p Page) Title() string {
	switch p {
	case PageHome:
		return "Welcome to the Trash Classifier App"
	case PageLogin:
		return "Login"
	case PagePublic:
		return "Trash Classification - Public"
	case PageGovernmentDashboard:
		return "Government Dashboard"
	case PageIndustryDashboard:
		return "Industry Dashboard"
	default:
		return string(p)
	}
}

// DashboardFor returns the dashboard page reached by a successful login for role.
func DashboardFor(role domainauth.Role) (Page, bool) {
	switch role {
	case domainauth.RoleGovernment:
		return PageGovernmentDashboard, true
	case domainauth.RoleIndustry:
		return PageIndustryDashboard, true
	default:
		return "", false
	}
}

// Session is the per-browser state. ID is an opaque identifier carried in a cookie.
type Session struct {
	ID        string          `json:"id"`
	Page      Page            `json:"page"`
	Role      domainauth.Role `json:"role,omitempty"`
	Entries   []waste.Entry   `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// New returns a fresh session on the Home page.
func New(id string, now time.Time, ttl time.Duration) Session {
	return Session{
		ID:        id,
		Page:      PageHome,
		Entries:   []waste.Entry{},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ErrInvalidSession is returned by Validate for sessions that break the page/role invariants.
var ErrInvalidSession = errors.New("invalid session state")

// Validate checks the page/role invariants.
func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSession)
	}
	if !s.Page.Valid() {
		return fmt.Errorf("%w: unknown page %q", ErrInvalidSession, s.Page)
	}
	if s.Page.RequiresRole() != s.Role.Valid() {
		return fmt.Errorf("%w: page %q with role %q", ErrInvalidSession, s.Page, s.Role)
	}
	if s.Role != domainauth.RoleNone && !s.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidSession, s.Role)
	}
	if s.Page == PageGovernmentDashboard || s.Page == PageIndustryDashboard {
		if dash, _ := DashboardFor(s.Role); dash != s.Page {
			return fmt.Errorf("%w: %q cannot view %q", ErrInvalidSession, s.Role, s.Page)
		}
	}
	return nil
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Touch returns a copy with the expiry moved ttl past now.
func (s Session) Touch(now time.Time, ttl time.Duration) Session {
	s.ExpiresAt = now.Add(ttl)
	return s
}

// HasEntries reports whether any waste entry was recorded.
func (s Session) HasEntries() bool { return len(s.Entries) > 0 }

// ErrNotOnPage is returned when a page-scoped command runs on another page.
var ErrNotOnPage = errors.New("command not available on current page")

// AddEntry returns a copy of s with e appended. Only the Industry dashboard records entries.
func (s Session) AddEntry(e waste.Entry) (Session, error) {
	if s.Page != PageIndustryDashboard {
		return s, fmt.Errorf("%w: add entry on %q", ErrNotOnPage, s.Page)
	}
	entries := make([]waste.Entry, len(s.Entries), len(s.Entries)+1)
	copy(entries, s.Entries)
	s.Entries = append(entries, e)
	return s, nil
}
