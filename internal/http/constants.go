package httpx

import "github.com/target/trash-classifier/internal/domain/session"

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Form field names shared by handlers and templates.
const (
	FieldRole      = "role"
	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldImage     = "image"
	FieldText      = "text"
	FieldWasteType = "waste_type"
	FieldUnit      = "amount_unit"
	FieldAmount    = "amount"
	FieldPrompt    = "prompt"
)

// DefaultSessionCookie is used when RouterServices.SessionCookie is empty.
const DefaultSessionCookie = "trash_session"

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[session.Page]string{
	session.PageHome:                "home-content",
	session.PageLogin:               "login-content",
	session.PagePublic:              "public-content",
	session.PageGovernmentDashboard: "government-content",
	session.PageIndustryDashboard:   "industry-content",
}

// ContentTemplateFor returns the content template for the given page.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(page session.Page) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "home-content"
}
