// Package tripclient talks to the trip store HTTP API on behalf of the
// operator console. It reads the in-progress trips and writes departures,
// arrivals and cancellations.
package tripclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frotalog/frotalog/internal/domain"
)

// Client is an HTTP client for the trip store API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the API at baseURL (e.g. "http://localhost:8080").
// timeout caps every request; callers may still pass shorter deadlines in
// their contexts.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type departureRequest struct {
	Vehicle       string  `json:"vehicle"`
	Driver        string  `json:"driver"`
	Requester     string  `json:"requester"`
	Route         string  `json:"route"`
	DepartureTime *string `json:"departureTime"`
}

type arrivalRequest struct {
	Vehicle     string   `json:"vehicle"`
	ArrivalTime *string  `json:"arrivalTime,omitempty"`
	Liters      *float64 `json:"liters,omitempty"`
	Odometer    *int     `json:"odometer,omitempty"`
}

type cancelRequest struct {
	Vehicle string `json:"vehicle"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// InProgress fetches every open trip. Any failure, including a non-2xx
// answer, is a *domain.LookupError.
func (c *Client) InProgress(ctx context.Context) ([]domain.InProgressTrip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/trips/in-progress", nil)
	if err != nil {
		return nil, &domain.LookupError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.LookupError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &domain.LookupError{Err: fmt.Errorf("tripclient.InProgress: unexpected status %d: %s", resp.StatusCode, readError(resp.Body))}
	}

	var trips []domain.InProgressTrip
	if err := json.NewDecoder(resp.Body).Decode(&trips); err != nil {
		return nil, &domain.LookupError{Err: fmt.Errorf("tripclient.InProgress: decode: %w", err)}
	}
	if trips == nil {
		trips = []domain.InProgressTrip{}
	}
	return trips, nil
}

// SubmitDeparture registers a departure and returns the store's message.
// Failures are *domain.SubmissionError carrying the store's error text when
// it sent one.
func (c *Client) SubmitDeparture(ctx context.Context, candidate domain.TripCandidate) (string, error) {
	body := departureRequest{
		Vehicle:       candidate.Vehicle,
		Driver:        candidate.Driver,
		Requester:     candidate.Requester,
		Route:         candidate.Route,
		DepartureTime: optional(candidate.DepartureTime),
	}
	return c.write(ctx, "/api/departures", body)
}

// RegisterArrival closes the vehicle's open trip.
func (c *Client) RegisterArrival(ctx context.Context, a domain.Arrival) (string, error) {
	body := arrivalRequest{
		Vehicle:     a.Vehicle,
		ArrivalTime: optional(a.ArrivalTime),
		Liters:      a.Liters,
		Odometer:    a.Odometer,
	}
	return c.write(ctx, "/api/arrivals", body)
}

// CancelTrip removes the vehicle's latest open trip.
func (c *Client) CancelTrip(ctx context.Context, vehicle string) (string, error) {
	return c.write(ctx, "/api/trips/cancel", cancelRequest{Vehicle: vehicle})
}

func (c *Client) write(ctx context.Context, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("tripclient: encode: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", &domain.SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg := readError(resp.Body)
		return "", &domain.SubmissionError{
			Status:  resp.StatusCode,
			Message: msg,
			Err:     fmt.Errorf("tripclient: %s: status %d", path, resp.StatusCode),
		}
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return "", &domain.SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("tripclient: %s: decode: %w", path, err)}
	}
	return out.Message, nil
}

// readError extracts the "error" field of an error body, or "" when the
// body is not the API's error shape.
func readError(r io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&e); err != nil {
		return ""
	}
	return e.Error
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
