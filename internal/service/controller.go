package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/trash-classifier/internal/domain/auth"
	"github.com/target/trash-classifier/internal/domain/session"
	"github.com/target/trash-classifier/internal/domain/waste"
	apperrors "github.com/target/trash-classifier/internal/errors"
	"github.com/target/trash-classifier/internal/observability/metrics"
	"github.com/target/trash-classifier/internal/ports"
)

// User-facing messages.
const (
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgInvalidEntry       = "Please provide a valid waste type and amount."
	MsgEmptyDataset       = "No data submitted yet. Please add waste data before generating suggestions."
	MsgEmptyText          = "Please enter some text to classify."
	MsgNotAvailable       = "That action is not available on this page."
)

// Generation parameters for each kind of model call.
var (
	ClassifyParams = ports.GenerationConfig{MaxOutputTokens: 1000, Temperature: 1.0}
	SuggestParams  = ports.GenerationConfig{MaxOutputTokens: 1000, Temperature: 0.7}
)

// DefaultSessionTTL is how long an idle session lives.
const DefaultSessionTTL = 8 * time.Hour

// RoleChoice is one of the three buttons on the home page.
type RoleChoice string

const (
	ChoicePublic     RoleChoice = "Public"
	ChoiceGovernment RoleChoice = "Government"
	ChoiceIndustry   RoleChoice = "Industry"
)

// Event maps the choice to its navigation event.
func (c RoleChoice) Event() (session.Event, bool) {
	switch RoleChoice(strings.TrimSpace(string(c))) {
	case ChoicePublic:
		return session.EventSelectPublic, true
	case ChoiceGovernment:
		return session.EventSelectGovernment, true
	case ChoiceIndustry:
		return session.EventSelectIndustry, true
	default:
		return "", false
	}
}

// ControllerDeps groups the collaborators of Controller.
type ControllerDeps struct {
	Sessions  ports.SessionStore // Required
	Generator ports.Generator    // Required
	Images    ports.ImageDecoder // Required
}

// ControllerConfig holds tunables. Zero values select defaults.
type ControllerConfig struct {
	SessionTTL  time.Duration
	Credentials domainauth.Credentials
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// ControllerOptions groups dependencies for Controller.
type ControllerOptions struct {
	Deps   ControllerDeps
	Config ControllerConfig
	Logger *slog.Logger // Optional: structured logger
}

// Controller owns session state transitions. Every mutating method runs one pass:
// load the session, apply one command, save. Passes for the same session ID
// are serialized; Ensure reads without joining that queue.
type Controller struct {
	sessions  ports.SessionStore
	generator ports.Generator
	images    ports.ImageDecoder

	ttl     time.Duration
	creds   domainauth.Credentials
	metrics *metrics.Metrics
	now     func() time.Time
	logger  *slog.Logger
	locks   *keyedMutex
}

// NewController constructs a Controller.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Deps.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}
	if opts.Deps.Generator == nil {
		return nil, errors.New("Generator is required")
	}
	if opts.Deps.Images == nil {
		return nil, errors.New("ImageDecoder is required")
	}

	cfg := opts.Config
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Credentials == nil {
		cfg.Credentials = domainauth.DefaultCredentials
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		sessions:  opts.Deps.Sessions,
		generator: opts.Deps.Generator,
		images:    opts.Deps.Images,
		ttl:       cfg.SessionTTL,
		creds:     cfg.Credentials,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
		logger:    logger.With("component", "controller"),
		locks:     newKeyedMutex(),
	}, nil
}

// Result is the outcome of one pass. Session is always the state after the pass,
// including when the pass returned an error.
type Result struct {
	Session session.Session
	// Notice is a success message to show.
	Notice string
	// Output is generated text to show verbatim.
	Output string
	// Image is the decoded upload, set by ClassifyImage.
	Image *ports.Image
}

// pass carries the session through one command.
type pass struct {
	sess  session.Session
	dirty bool
	res   Result
}

// Ensure returns the session for id, creating a fresh Home session under a new ID
// when id is empty or unknown. Callers must use the returned session's ID.
// It only reads an existing session, so it does not wait for a pass in progress.
func (c *Controller) Ensure(ctx context.Context, id string) (session.Session, error) {
	if id != "" {
		s, err := c.sessions.Get(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ports.ErrSessionNotFound) {
			return session.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not load your session.")
		}
	}
	return c.create(ctx, uuid.NewString())
}

func (c *Controller) create(ctx context.Context, id string) (session.Session, error) {
	s := session.New(id, c.now(), c.ttl)
	if err := c.sessions.Save(ctx, s); err != nil {
		return session.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not create your session.")
	}
	c.metrics.SessionCreated()
	c.logger.DebugContext(ctx, "session created", "session_id", shortID(id))
	return s, nil
}

// run executes fn under the session lock and persists the session if fn changed it.
func (c *Controller) run(ctx context.Context, id string, fn func(p *pass) error) (Result, error) {
	if id == "" {
		return Result{}, apperrors.Validation("missing session")
	}
	unlock := c.locks.Lock(id)
	defer unlock()

	s, err := c.sessions.Get(ctx, id)
	switch {
	case errors.Is(err, ports.ErrSessionNotFound):
		if s, err = c.create(ctx, id); err != nil {
			return Result{}, err
		}
	case err != nil:
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not load your session.")
	}

	p := &pass{sess: s}
	fnErr := fn(p)
	if p.dirty {
		p.sess = p.sess.Touch(c.now(), c.ttl)
		if saveErr := c.sessions.Save(ctx, p.sess); saveErr != nil {
			p.sess = s
			return Result{Session: s}, errors.Join(
				apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "Could not save your session."), fnErr)
		}
	}
	p.res.Session = p.sess
	return p.res, fnErr
}

// apply runs ev and records the transition.
func (c *Controller) apply(ctx context.Context, p *pass, ev session.Event) error {
	next, tr, err := session.Apply(p.sess, ev)
	if err != nil {
		c.logger.WarnContext(ctx, "illegal transition",
			"session_id", shortID(p.sess.ID), "event", ev, "page", p.sess.Page)
		return apperrors.Wrap(err, apperrors.ErrCodeIllegalTransition, MsgNotAvailable)
	}
	c.logger.InfoContext(ctx, "page transition",
		"session_id", shortID(p.sess.ID),
		"transition", tr.String(),
		"role_before", p.sess.Role,
		"role_after", next.Role,
		"entries", len(next.Entries))
	c.metrics.Transition(string(tr.Event), string(tr.From), string(tr.To))
	p.sess = next
	p.dirty = true
	return nil
}

func requirePage(s session.Session, page session.Page) error {
	if s.Page != page {
		return apperrors.Wrap(fmt.Errorf("%w: need %q, on %q", session.ErrNotOnPage, page, s.Page),
			apperrors.ErrCodeIllegalTransition, MsgNotAvailable)
	}
	return nil
}

// SelectRole handles the home page buttons.
func (c *Controller) SelectRole(ctx context.Context, id string, choice RoleChoice) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		ev, ok := choice.Event()
		if !ok {
			return apperrors.ValidationField("role", fmt.Sprintf("Unknown role %q.", choice))
		}
		return c.apply(ctx, p, ev)
	})
}

// Login checks username/password against the role chosen on the home page.
// Unknown users and wrong passwords produce the same error.
func (c *Controller) Login(ctx context.Context, id, username, password string) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		if err := requirePage(p.sess, session.PageLogin); err != nil {
			return err
		}
		role := p.sess.Role
		ok := c.creds.Verify(role, username, password)
		c.metrics.Login(role.String(), ok)
		if !ok {
			c.logger.InfoContext(ctx, "login failed", "session_id", shortID(p.sess.ID), "role", role)
			if err := c.apply(ctx, p, session.EventLoginFailed); err != nil {
				return err
			}
			return apperrors.InvalidCredentials(MsgInvalidCredentials)
		}
		if err := c.apply(ctx, p, session.EventLoginSucceeded); err != nil {
			return err
		}
		p.res.Notice = fmt.Sprintf("Welcome, %s user!", role)
		return nil
	})
}

// ReturnHome navigates back to the home page, clearing the role but keeping entries.
func (c *Controller) ReturnHome(ctx context.Context, id string) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		return c.apply(ctx, p, session.EventReturnHome)
	})
}

// ClassifyImage decodes an uploaded image and asks the model what it is made of.
func (c *Controller) ClassifyImage(ctx context.Context, id string, data []byte) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		if err := requirePage(p.sess, session.PagePublic); err != nil {
			return err
		}
		img, err := c.images.Decode(data)
		if err != nil {
			c.logger.InfoContext(ctx, "image rejected", "session_id", shortID(p.sess.ID), "error", err)
			return err
		}
		p.res.Image = &img

		out, err := c.generate(ctx, "image", []ports.Part{
			ports.TextPart(waste.ImageClassificationPrompt),
			ports.ImagePart(img.Data, img.MIMEType),
		}, ClassifyParams)
		if err != nil {
			return err
		}
		p.res.Output = out
		return nil
	})
}

// ClassifyText sends the raw text as the whole prompt.
func (c *Controller) ClassifyText(ctx context.Context, id, text string) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		if err := requirePage(p.sess, session.PagePublic); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return apperrors.ValidationField("text", MsgEmptyText)
		}
		out, err := c.generate(ctx, "text", []ports.Part{ports.TextPart(text)}, ClassifyParams)
		if err != nil {
			return err
		}
		p.res.Output = out
		return nil
	})
}

// EntryInput carries the raw Industry form values.
type EntryInput struct {
	WasteType string
	Unit      string
	Amount    string
}

// SubmitEntry validates and records one waste entry.
func (c *Controller) SubmitEntry(ctx context.Context, id string, in EntryInput) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		if err := requirePage(p.sess, session.PageIndustryDashboard); err != nil {
			return err
		}
		entry, err := parseEntry(in)
		if err != nil {
			c.metrics.Entry(unitLabel(in.Unit), false)
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, MsgInvalidEntry)
		}
		next, err := p.sess.AddEntry(entry)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeIllegalTransition, MsgNotAvailable)
		}
		p.sess = next
		p.dirty = true
		c.metrics.Entry(string(entry.Unit), true)
		c.logger.InfoContext(ctx, "waste entry added",
			"session_id", shortID(p.sess.ID),
			"waste_type", entry.WasteType,
			"unit", entry.Unit,
			"entries", len(p.sess.Entries))
		p.res.Notice = fmt.Sprintf("Data for %s added successfully!", entry.WasteType)
		return nil
	})
}

// unitLabel bounds the metric label to known units.
func unitLabel(raw string) string {
	if u, err := waste.ParseAmountUnit(raw); err == nil {
		return string(u)
	}
	return "unknown"
}

func parseEntry(in EntryInput) (waste.Entry, error) {
	unit, err := waste.ParseAmountUnit(in.Unit)
	if err != nil {
		return waste.Entry{}, err
	}
	raw := strings.TrimSpace(in.Amount)
	if raw == "" {
		return waste.Entry{}, waste.ErrNonPositiveAmount
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return waste.Entry{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return waste.NewEntry(in.WasteType, amount, unit)
}

// GenerateSuggestions summarizes the recorded entries and asks the model for product ideas.
func (c *Controller) GenerateSuggestions(ctx context.Context, id, prompt string) (Result, error) {
	return c.run(ctx, id, func(p *pass) error {
		if err := requirePage(p.sess, session.PageIndustryDashboard); err != nil {
			return err
		}
		if !p.sess.HasEntries() {
			return apperrors.EmptyDataset(MsgEmptyDataset)
		}
		full := waste.SuggestionPrompt(p.sess.Entries, prompt)
		out, err := c.generate(ctx, "suggestions", []ports.Part{ports.TextPart(full)}, SuggestParams)
		if err != nil {
			return err
		}
		p.res.Output = out
		return nil
	})
}

// Entries returns the recorded entries of an Industry session.
func (c *Controller) Entries(ctx context.Context, id string) ([]waste.Entry, error) {
	res, err := c.run(ctx, id, func(p *pass) error {
		return requirePage(p.sess, session.PageIndustryDashboard)
	})
	if err != nil {
		return nil, err
	}
	return res.Session.Entries, nil
}

// Suggestions returns the reference waste types matching query.
func (c *Controller) Suggestions(query string) []string {
	return waste.Suggest(query)
}

func (c *Controller) generate(
	ctx context.Context,
	kind string,
	parts []ports.Part,
	cfg ports.GenerationConfig,
) (string, error) {
	start := c.now()
	out, err := c.generator.Generate(ctx, parts, cfg)
	elapsed := c.now().Sub(start)

	if err != nil {
		c.metrics.ObserveGeneration(metrics.GenerationMetric{
			Kind: kind, Result: metrics.ResultError, Duration: elapsed, Err: err,
		})
		c.logger.ErrorContext(ctx, "generation failed", "kind", kind, "duration", elapsed, "error", err)
		if apperrors.GetCode(err) == "" {
			err = apperrors.Wrap(err, apperrors.ErrCodeGeneration, "The AI service could not answer. Please try again.")
		}
		return "", err
	}

	c.metrics.ObserveGeneration(metrics.GenerationMetric{
		Kind: kind, Result: metrics.ResultSuccess, Duration: elapsed,
	})
	c.logger.InfoContext(ctx, "generation complete", "kind", kind, "duration", elapsed, "chars", len(out))
	return out, nil
}

// shortID trims session IDs in logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
