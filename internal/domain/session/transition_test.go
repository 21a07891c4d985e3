package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/trash-classifier/internal/domain/auth"
	"github.com/target/trash-classifier/internal/domain/waste"
)

func newTestSession() Session {
	return New("sess-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
}

func mustApply(t *testing.T, s Session, events ...Event) Session {
	t.Helper()
	for _, ev := range events {
		var err error
		s, _, err = Apply(s, ev)
		require.NoError(t, err, "apply %s", ev)
	}
	return s
}

func TestNew_StartsOnHome(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, PageHome, s.Page)
	assert.Equal(t, domainauth.RoleNone, s.Role)
	assert.Empty(t, s.Entries)
	require.NoError(t, s.Validate())
}

func TestApply_Edges(t *testing.T) {
	tests := []struct {
		name     string
		events   []Event
		wantPage Page
		wantRole domainauth.Role
	}{
		{name: "public", events: []Event{EventSelectPublic}, wantPage: PagePublic},
		{
			name:     "government login page",
			events:   []Event{EventSelectGovernment},
			wantPage: PageLogin,
			wantRole: domainauth.RoleGovernment,
		},
		{
			name:     "industry login page",
			events:   []Event{EventSelectIndustry},
			wantPage: PageLogin,
			wantRole: domainauth.RoleIndustry,
		},
		{
			name:     "government dashboard",
			events:   []Event{EventSelectGovernment, EventLoginSucceeded},
			wantPage: PageGovernmentDashboard,
			wantRole: domainauth.RoleGovernment,
		},
		{
			name:     "industry dashboard",
			events:   []Event{EventSelectIndustry, EventLoginSucceeded},
			wantPage: PageIndustryDashboard,
			wantRole: domainauth.RoleIndustry,
		},
		{
			name:     "failed login stays",
			events:   []Event{EventSelectIndustry, EventLoginFailed, EventLoginFailed},
			wantPage: PageLogin,
			wantRole: domainauth.RoleIndustry,
		},
		{
			name:     "home from dashboard clears role",
			events:   []Event{EventSelectIndustry, EventLoginSucceeded, EventReturnHome},
			wantPage: PageHome,
		},
		{name: "home from public", events: []Event{EventSelectPublic, EventReturnHome}, wantPage: PageHome},
		{name: "home from login", events: []Event{EventSelectGovernment, EventReturnHome}, wantPage: PageHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustApply(t, newTestSession(), tt.events...)
			assert.Equal(t, tt.wantPage, s.Page)
			assert.Equal(t, tt.wantRole, s.Role)
			require.NoError(t, s.Validate())
		})
	}
}

func TestApply_ReportsTransition(t *testing.T) {
	s := mustApply(t, newTestSession(), EventSelectIndustry)
	_, tr, err := Apply(s, EventLoginSucceeded)
	require.NoError(t, err)
	assert.Equal(t, Transition{Event: EventLoginSucceeded, From: PageLogin, To: PageIndustryDashboard}, tr)
	assert.Equal(t, "login --login-succeeded--> industry-dashboard", tr.String())
}

func TestApply_IllegalLeavesSessionUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		setup []Event
		event Event
	}{
		{name: "login on home", event: EventLoginSucceeded},
		{name: "return home on home", event: EventReturnHome},
		{name: "select on public", setup: []Event{EventSelectPublic}, event: EventSelectIndustry},
		{name: "reselect on login", setup: []Event{EventSelectIndustry}, event: EventSelectGovernment},
		{
			name:  "login again on dashboard",
			setup: []Event{EventSelectGovernment, EventLoginSucceeded},
			event: EventLoginSucceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := mustApply(t, newTestSession(), tt.setup...)
			after, _, err := Apply(before, tt.event)
			require.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, before, after)
		})
	}
}

func TestReturnHome_KeepsEntries(t *testing.T) {
	s := mustApply(t, newTestSession(), EventSelectIndustry, EventLoginSucceeded)
	s, err := s.AddEntry(waste.Entry{WasteType: "Metal", Amount: 5, Unit: waste.UnitKilograms})
	require.NoError(t, err)

	s = mustApply(t, s, EventReturnHome)
	assert.Len(t, s.Entries, 1)
}

func TestAddEntry(t *testing.T) {
	entry := waste.Entry{WasteType: "Metal", Amount: 5, Unit: waste.UnitKilograms}

	_, err := newTestSession().AddEntry(entry)
	require.ErrorIs(t, err, ErrNotOnPage)

	s := mustApply(t, newTestSession(), EventSelectIndustry, EventLoginSucceeded)
	next, err := s.AddEntry(entry)
	require.NoError(t, err)
	assert.Empty(t, s.Entries, "original must not be mutated")
	assert.Equal(t, []waste.Entry{entry}, next.Entries)
}

func TestValidate(t *testing.T) {
	base := newTestSession()
	tests := []struct {
		name string
		mut  func(s *Session)
	}{
		{name: "empty id", mut: func(s *Session) { s.ID = "" }},
		{name: "unknown page", mut: func(s *Session) { s.Page = "settings" }},
		{name: "login without role", mut: func(s *Session) { s.Page = PageLogin }},
		{name: "home with role", mut: func(s *Session) { s.Role = domainauth.RoleIndustry }},
		{name: "unknown role", mut: func(s *Session) { s.Role = "Public" }},
		{name: "dashboard without role", mut: func(s *Session) { s.Page = PageIndustryDashboard }},
		{
			name: "mismatched dashboard",
			mut: func(s *Session) {
				s.Page = PageIndustryDashboard
				s.Role = domainauth.RoleGovernment
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mut(&s)
			require.ErrorIs(t, s.Validate(), ErrInvalidSession)
		})
	}
}

func TestSession_ExpiryAndTouch(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Expired(s.CreatedAt))
	assert.True(t, s.Expired(s.CreatedAt.Add(2*time.Hour)))

	later := s.CreatedAt.Add(30 * time.Minute)
	s = s.Touch(later, time.Hour)
	assert.Equal(t, later.Add(time.Hour), s.ExpiresAt)
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(PageHome, EventSelectPublic))
	assert.False(t, Allowed(PageHome, EventReturnHome))
	assert.True(t, Allowed(PageIndustryDashboard, EventReturnHome))
}
