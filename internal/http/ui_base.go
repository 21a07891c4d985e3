package httpx

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"

	domainauth "github.com/target/trash-classifier/internal/domain/auth"
	"github.com/target/trash-classifier/internal/domain/session"
	"github.com/target/trash-classifier/internal/domain/waste"
	apperrors "github.com/target/trash-classifier/internal/errors"
	"github.com/target/trash-classifier/internal/ports"
	"github.com/target/trash-classifier/internal/service"
)

const appTitle = "Trash Classifier"

// mainTarget is the id of the element every page swap replaces.
const mainTarget = "main"

// BannerKind selects the banner styling.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerWarning BannerKind = "warning"
	BannerError   BannerKind = "error"
)

// Banner is a one-shot message shown above the page content.
type Banner struct {
	Kind    BannerKind
	Message string
}

// Layout contains metadata shared by every page.
type Layout struct {
	Title     string
	CSRFToken string
	IsDev     bool
}

// FormValues echoes submitted values back into the forms.
type FormValues struct {
	Username  string
	Text      string
	WasteType string
	Unit      waste.AmountUnit
	Amount    string
	Prompt    string
}

// ViewData is the template data for every page.
type ViewData struct {
	Layout
	Page        session.Page
	PageTitle   string
	Role        domainauth.Role
	Banner      *Banner
	Output      string
	OutputTitle string
	// ImagePreview is a data URI of the uploaded image thumbnail.
	ImagePreview template.URL
	Entries      []waste.Entry
	Units        []waste.AmountUnit
	Form         FormValues
	FieldErrors  map[string]string
	Status       int
}

// StatusCode implements statusCoder.
func (v ViewData) StatusCode() int { return v.Status }

// ErrorView is the template data for error pages.
type ErrorView struct {
	Layout
	Code    int
	Heading string
	Message string
}

// StatusCode implements statusCoder.
func (v ErrorView) StatusCode() int { return v.Code }

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T          *TemplateRenderer
	Controller *service.Controller
	// MaxUploadBytes bounds multipart bodies.
	MaxUploadBytes int64
	IsDev          bool
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) layout(r *http.Request) Layout {
	return Layout{Title: appTitle, CSRFToken: GetCSRFToken(r), IsDev: h.IsDev}
}

// newView builds the view for s with no banner or output.
func (h *UIHandlers) newView(r *http.Request, s session.Session) ViewData {
	form := FormValues{Unit: waste.UnitKilograms}
	return ViewData{
		Layout:    h.layout(r),
		Page:      s.Page,
		PageTitle: pageTitle(s),
		Role:      s.Role,
		Entries:   s.Entries,
		Units:     waste.Units(),
		Form:      form,
		Status:    http.StatusOK,
	}
}

func pageTitle(s session.Session) string {
	if s.Page == session.PageLogin {
		return "Login - " + s.Role.String()
	}
	return s.Page.Title()
}

// outcome is the result of one controller pass as seen by a handler.
type outcome struct {
	Result      service.Result
	Err         error
	Form        FormValues
	OutputTitle string
}

// respond renders the page the session is on after a pass, with the pass's banner and output.
// Internal failures render the error page instead.
func (h *UIHandlers) respond(w http.ResponseWriter, r *http.Request, o outcome) {
	if o.Err != nil && StatusFor(o.Err) == http.StatusInternalServerError {
		h.logger().ErrorContext(r.Context(), "request failed",
			"request_id", RequestID(r.Context()),
			"path", r.URL.Path,
			"error", o.Err)
		h.renderServerError(w, r, o.Err)
		return
	}

	s := o.Result.Session
	if s.ID == "" {
		s, _ = GetSessionFromContext(r.Context())
	}
	view := h.newView(r, s)
	view.Form = mergeForm(view.Form, o.Form)
	view.Output = o.Result.Output
	view.OutputTitle = o.OutputTitle
	view.ImagePreview = previewURI(o.Result.Image)

	switch {
	case o.Err != nil:
		view.Banner = bannerFor(o.Err)
		view.Status = StatusFor(o.Err)
		if field := apperrors.GetField(o.Err); field != "" {
			view.FieldErrors = map[string]string{field: view.Banner.Message}
		}
	case o.Result.Notice != "":
		view.Banner = &Banner{Kind: BannerSuccess, Message: o.Result.Notice}
	}

	h.render(w, r, view)
}

// render writes the partial for htmx requests and the full layout otherwise.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, view ViewData) {
	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, r, view)
	} else {
		err = h.T.RenderFull(w, r, view)
	}
	if err != nil {
		http.Error(w, "Unable to render page.", http.StatusInternalServerError)
	}
}

func mergeForm(base, in FormValues) FormValues {
	if in.Unit == "" {
		in.Unit = base.Unit
	}
	return in
}

// bannerFor maps an error to the banner shown for it. Validation-type problems are warnings.
func bannerFor(err error) *Banner {
	msg := apperrors.UserMessage(err, "Something went wrong. Please try again.")
	switch {
	case apperrors.IsValidation(err), apperrors.IsEmptyDataset(err), apperrors.IsIllegalTransition(err):
		return &Banner{Kind: BannerWarning, Message: msg}
	default:
		return &Banner{Kind: BannerError, Message: msg}
	}
}

// previewURI encodes the thumbnail (or the original when none was made) as a data URI.
func previewURI(img *ports.Image) template.URL {
	if img == nil {
		return ""
	}
	data, mime := img.Thumbnail, "image/jpeg"
	if len(data) == 0 {
		data, mime = img.Data, img.MIMEType
	}
	if len(data) == 0 {
		return ""
	}
	// #nosec G203 - base64 payload with a fixed image MIME type.
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// renderServerError renders the 500 page, as a fragment for htmx requests.
func (h *UIHandlers) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	view := ErrorView{
		Layout:  h.layout(r),
		Code:    http.StatusInternalServerError,
		Heading: "Something went wrong",
		Message: apperrors.UserMessage(err, "The request could not be completed. Please try again."),
	}
	h.renderErrorView(w, r, view)
}

func (h *UIHandlers) renderErrorView(w http.ResponseWriter, r *http.Request, view ErrorView) {
	var rerr error
	if WantsPartial(r) {
		// Fragment requests (typeahead, amount control) must not swap the error into their slot.
		if HXTarget(r) != mainTarget {
			SetHXRetarget(w, "#"+mainTarget)
			SetHXReswap(w, "innerHTML")
		}
		rerr = h.T.RenderFragment(w, "error-content", view)
	} else {
		rerr = h.T.RenderError(w, r, view)
	}
	if rerr != nil {
		http.Error(w, view.Message, view.Code)
	}
}

// sessionIDOrFail returns the request's session ID, or renders a 500 when the
// session middleware did not run.
func (h *UIHandlers) sessionIDOrFail(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := SessionID(r.Context())
	if id == "" {
		h.renderServerError(w, r, apperrors.Internal("Your session could not be loaded."))
		return "", false
	}
	return id, true
}
