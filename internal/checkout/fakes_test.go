package checkout_test

import (
	"context"
	"sync"

	"github.com/frotalog/frotalog/internal/checkout"
	"github.com/frotalog/frotalog/internal/domain"
)

// fakeStore is an in-memory trip store. It serves the in-progress read and
// accepts departures, counting both so tests can assert that no write
// happened.
type fakeStore struct {
	mu        sync.Mutex
	trips     []domain.InProgressTrip
	lookupErr error
	submitErr error
	submitMsg string
	block     bool // InProgress waits for ctx to end

	lookups int
	writes  int
}

func newFakeStore(trips ...domain.InProgressTrip) *fakeStore {
	return &fakeStore{trips: trips, submitMsg: "Saída registrada."}
}

func (s *fakeStore) InProgress(ctx context.Context) ([]domain.InProgressTrip, error) {
	s.mu.Lock()
	s.lookups++
	block, lookupErr := s.block, s.lookupErr
	out := append([]domain.InProgressTrip(nil), s.trips...)
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &domain.LookupError{Err: ctx.Err()}
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return out, nil
}

func (s *fakeStore) SubmitDeparture(_ context.Context, c domain.TripCandidate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.submitErr != nil {
		return "", s.submitErr
	}
	s.trips = append(s.trips, domain.InProgressTrip{Vehicle: c.Vehicle, Driver: c.Driver, DepartureTimeDisplay: c.DepartureTime})
	return s.submitMsg, nil
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *fakeStore) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

// recordingPrompt answers every question with answer (or err) and keeps the
// prompts it was shown.
type recordingPrompt struct {
	answer bool
	err    error
	asked  []checkout.Prompt
}

func (p *recordingPrompt) Confirm(_ context.Context, prompt checkout.Prompt) (bool, error) {
	p.asked = append(p.asked, prompt)
	return p.answer, p.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []checkout.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice checkout.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) levels() []checkout.Level {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []checkout.Level
	for _, x := range n.notices {
		out = append(out, x.Level)
	}
	return out
}

type recordingHighlighter struct {
	trips []domain.InProgressTrip
}

func (h *recordingHighlighter) Highlight(_ context.Context, t domain.InProgressTrip) {
	h.trips = append(h.trips, t)
}

type countingRefresher struct {
	calls int
}

func (r *countingRefresher) RefreshInProgress(context.Context) {
	r.calls++
}
