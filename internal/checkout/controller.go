package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frotalog/frotalog/internal/domain"
)

// ErrAttemptInProgress is returned in Outcome.Err when Submit is called while
// another attempt on the same form has not finished.
var ErrAttemptInProgress = errors.New("checkout: attempt already in progress")

const defaultTimeout = 5 * time.Second

// Outcome is how a submission attempt ended.
type Outcome struct {
	// State is the terminal state reached, or StateIdle when the attempt
	// never started (validation failure, concurrent attempt).
	State State
	// Result is the duplicate classification, when the check ran.
	Result domain.DuplicateCheckResult
	// Message is the text shown to the operator.
	Message string
	// Err is *domain.ValidationError, *domain.LookupError,
	// *domain.SubmissionError or ErrAttemptInProgress; nil otherwise.
	Err error
}

// Controller owns one departure form and runs its submission attempts, one
// at a time. Build it once per form with NewController.
type Controller struct {
	checker   Checker
	submitter Submitter
	override  UserPrompt
	final     UserPrompt

	notifier    Notifier
	highlighter Highlighter
	refresher   Refresher

	lookupTimeout time.Duration
	submitTimeout time.Duration
	log           *slog.Logger

	active sync.Mutex // held for the whole attempt

	mu   sync.Mutex
	form domain.TripCandidate
}

// Option customizes a Controller.
type Option func(*Controller)

// WithNotifier sets where notices go. Without it notices are dropped.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithHighlighter sets how conflicting trips are pointed out.
func WithHighlighter(h Highlighter) Option {
	return func(c *Controller) { c.highlighter = h }
}

// WithRefresher sets what is reloaded after a successful departure.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) { c.refresher = r }
}

// WithTimeouts bounds the in-progress lookup and the departure write.
// Non-positive values keep the 5s default.
func WithTimeouts(lookup, submit time.Duration) Option {
	return func(c *Controller) {
		if lookup > 0 {
			c.lookupTimeout = lookup
		}
		if submit > 0 {
			c.submitTimeout = submit
		}
	}
}

// WithLogger sets the logger used for transition and failure logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController builds the controller for one departure form. override asks
// about driver conflicts and final asks for the last confirmation.
func NewController(checker Checker, submitter Submitter, override, final UserPrompt, opts ...Option) *Controller {
	c := &Controller{
		checker:       checker,
		submitter:     submitter,
		override:      override,
		final:         final,
		notifier:      nopNotifier{},
		highlighter:   nopHighlighter{},
		refresher:     nopRefresher{},
		lookupTimeout: defaultTimeout,
		submitTimeout: defaultTimeout,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetForm replaces the form's field values.
func (c *Controller) SetForm(candidate domain.TripCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = candidate
}

// Form returns the form's current field values.
func (c *Controller) Form() domain.TripCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit runs one attempt with the current form values. A call made while
// another attempt is running returns at once with ErrAttemptInProgress.
//
// Only a successful submission clears the form; every other outcome leaves
// it as entered so the operator can retry.
func (c *Controller) Submit(ctx context.Context) Outcome {
	if !c.active.TryLock() {
		c.log.WarnContext(ctx, "departure submit ignored: attempt in progress")
		return Outcome{State: StateIdle, Message: msgBusy, Err: ErrAttemptInProgress}
	}
	defer c.active.Unlock()

	return c.run(ctx, newAttempt(c.log), c.Form())
}

func (c *Controller) run(ctx context.Context, a *attempt, candidate domain.TripCandidate) Outcome {
	if verr := validate(candidate); verr != nil {
		c.notifier.Notify(ctx, Notice{Level: LevelError, Message: verr.Message})
		return Outcome{State: StateIdle, Message: verr.Message, Err: verr}
	}

	a.fire(ctx, eventCheck)
	result, err := c.check(ctx, candidate)
	if err != nil {
		a.fire(ctx, eventFail)
		c.log.WarnContext(ctx, "duplicate check failed", "vehicle", candidate.Vehicle, "error", err)
		c.notifier.Notify(ctx, Notice{Level: LevelError, Message: msgLookupFailed})
		return Outcome{State: a.state(), Message: msgLookupFailed, Err: err}
	}

	switch result.Kind {
	case domain.CheckVehicleConflict:
		a.fire(ctx, eventBlock)
		msg := vehicleConflictMessage(candidate, result.Conflict)
		c.notifier.Notify(ctx, Notice{Level: LevelBlocking, Message: msg})
		c.highlighter.Highlight(ctx, result.Conflict)
		return Outcome{State: a.state(), Result: result, Message: msg}

	case domain.CheckDriverConflict:
		a.fire(ctx, eventAskOverride)
		if !c.ask(ctx, c.override, overridePrompt(candidate, result.Conflict)) {
			a.fire(ctx, eventCancel)
			c.notifier.Notify(ctx, Notice{Level: LevelWarning, Message: msgOverrideDeclined})
			c.highlighter.Highlight(ctx, result.Conflict)
			return Outcome{State: a.state(), Result: result, Message: msgOverrideDeclined}
		}
		a.fire(ctx, eventOverride)

	default:
		a.fire(ctx, eventAllow)
	}

	if !c.ask(ctx, c.final, finalPrompt(candidate)) {
		a.fire(ctx, eventCancel)
		c.notifier.Notify(ctx, Notice{Level: LevelInfo, Message: msgFinalDeclined})
		return Outcome{State: a.state(), Result: result, Message: msgFinalDeclined}
	}

	a.fire(ctx, eventConfirm)
	msg, err := c.submit(ctx, candidate)
	if err != nil {
		a.fire(ctx, eventFail)
		text := submissionMessage(err)
		c.log.WarnContext(ctx, "departure submission failed", "vehicle", candidate.Vehicle, "error", err)
		c.notifier.Notify(ctx, Notice{Level: LevelError, Message: text})
		return Outcome{State: a.state(), Result: result, Message: text, Err: err}
	}

	a.fire(ctx, eventSucceed)
	if msg == "" {
		msg = msgSubmitted
	}
	c.SetForm(domain.TripCandidate{})
	c.refresher.RefreshInProgress(ctx)
	c.notifier.Notify(ctx, Notice{Level: LevelSuccess, Message: msg})
	c.log.InfoContext(ctx, "departure registered", "vehicle", candidate.Vehicle, "driver", candidate.Driver)
	return Outcome{State: a.state(), Result: result, Message: msg}
}

func (c *Controller) check(ctx context.Context, candidate domain.TripCandidate) (domain.DuplicateCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	result, err := c.checker.Check(ctx, candidate)
	if err != nil {
		var lookupErr *domain.LookupError
		if !errors.As(err, &lookupErr) {
			err = &domain.LookupError{Err: err}
		}
		return domain.DuplicateCheckResult{}, err
	}
	return result, nil
}

func (c *Controller) submit(ctx context.Context, candidate domain.TripCandidate) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	msg, err := c.submitter.SubmitDeparture(ctx, candidate)
	if err != nil {
		var subErr *domain.SubmissionError
		if !errors.As(err, &subErr) {
			err = &domain.SubmissionError{Err: err}
		}
		return "", err
	}
	return msg, nil
}

// ask treats a prompt error as a decline.
func (c *Controller) ask(ctx context.Context, p UserPrompt, prompt Prompt) bool {
	ok, err := p.Confirm(ctx, prompt)
	if err != nil {
		c.log.WarnContext(ctx, "confirmation prompt failed", "title", prompt.Title, "error", err)
		return false
	}
	return ok
}

// validate checks the required fields locally, before any network call.
func validate(c domain.TripCandidate) *domain.ValidationError {
	if strings.TrimSpace(c.Vehicle) == "" {
		return domain.NewValidationError("vehicle", msgMissingVehicle)
	}
	if strings.TrimSpace(c.Driver) == "" {
		return domain.NewValidationError("driver", msgMissingDriver)
	}
	return nil
}
