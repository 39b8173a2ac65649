// Package checkout runs the departure confirmation protocol for one form:
// validate, check for duplicates, ask the operator when needed, submit, and
// report. Everything outside the protocol (the trip store, the screen, the
// operator) is reached through the small interfaces in this file.
package checkout

import (
	"context"

	"github.com/frotalog/frotalog/internal/domain"
)

// Checker classifies a candidate against the trips currently in progress.
// *guard.Guard satisfies it.
type Checker interface {
	Check(ctx context.Context, candidate domain.TripCandidate) (domain.DuplicateCheckResult, error)
}

// Submitter registers a departure and returns the store's confirmation
// message. Failures are *domain.SubmissionError.
type Submitter interface {
	SubmitDeparture(ctx context.Context, candidate domain.TripCandidate) (string, error)
}

// PromptKind tells a UserPrompt which question it is answering.
type PromptKind int

const (
	// PromptDriverOverride asks whether to register a departure for a driver
	// who is already out on another vehicle.
	PromptDriverOverride PromptKind = iota
	// PromptFinalConfirm asks for the last confirmation before the write.
	PromptFinalConfirm
)

// Field is one labelled value shown in a prompt or notice.
type Field struct {
	Label string
	Value string
}

// Prompt is a yes/no question put to the operator.
type Prompt struct {
	Kind    PromptKind
	Title   string
	Message string
	Fields  []Field
}

// UserPrompt asks the operator a yes/no question and waits for the answer.
// An error (closed input, cancelled context) is treated as "no".
type UserPrompt interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// PromptFunc adapts a function to UserPrompt.
type PromptFunc func(ctx context.Context, p Prompt) (bool, error)

func (f PromptFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
	// LevelBlocking notices must be acknowledged by the operator before the
	// host moves on.
	LevelBlocking
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelBlocking:
		return "blocking"
	default:
		return "unknown"
	}
}

// Notice is a message for the operator.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices to the operator.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Highlighter draws the operator's attention to an open trip, e.g. by
// marking its row in the in-progress list.
type Highlighter interface {
	Highlight(ctx context.Context, trip domain.InProgressTrip)
}

// Refresher reloads whatever in-progress list the host is showing.
type Refresher interface {
	RefreshInProgress(ctx context.Context)
}

// Refreshers fans a refresh out to several Refresher values in order.
type Refreshers []Refresher

func (rs Refreshers) RefreshInProgress(ctx context.Context) {
	for _, r := range rs {
		r.RefreshInProgress(ctx)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

type nopHighlighter struct{}

func (nopHighlighter) Highlight(context.Context, domain.InProgressTrip) {}

type nopRefresher struct{}

func (nopRefresher) RefreshInProgress(context.Context) {}
