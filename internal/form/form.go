// Package form holds the city-facts form state machine: a pending query,
// the last result, the last error, and a loading flag. All transitions run
// through Submit; editing the field never clears a prior result or error.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/kalambet/cityfacts/internal/backend"
)

// ErrBusy is returned by Submit while a previous submit is still in flight.
// The in-flight lookup is never cancelled by a rejected one.
var ErrBusy = errors.New("a lookup is already in progress")

const (
	// ValidationMessage is shown when the trimmed query is empty.
	ValidationMessage = "Please enter a city name"
	// FallbackMessage is shown for failures that carry no usable detail.
	FallbackMessage = "Something went wrong"
)

// Provider resolves a city name to facts. *facts.Service satisfies it.
type Provider interface {
	Lookup(ctx context.Context, name string) (backend.CityFacts, error)
}

// State is a consistent snapshot of the form for rendering.
type State struct {
	CityName string // pending input field value
	City     string // city the current facts belong to
	Facts    string
	Error    string
	Loading  bool
}

// Form is the city-facts form. The zero value is not usable; construct
// with New.
type Form struct {
	mu       sync.Mutex
	provider Provider
	logger   *slog.Logger

	cityName string
	city     string
	facts    string
	errMsg   string
	loading  bool
}

func New(provider Provider) *Form {
	return &Form{
		provider: provider,
		logger:   slog.Default(),
	}
}

// SetCityName updates the pending query. Prior facts and error stay as
// they are until the next Submit.
func (f *Form) SetCityName(v string) {
	f.mu.Lock()
	f.cityName = v
	f.mu.Unlock()
}

// State returns a snapshot of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		CityName: f.cityName,
		City:     f.city,
		Facts:    f.facts,
		Error:    f.errMsg,
		Loading:  f.loading,
	}
}

// Submit runs one lookup for the pending query. An empty trimmed query sets
// the validation message without touching the network. Any other outcome,
// success or failure, lands in the form state; the loading flag is released
// on every exit path. A Submit while one is in flight returns ErrBusy and
// changes nothing.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}

	name := strings.TrimSpace(f.cityName)
	if name == "" {
		f.errMsg = ValidationMessage
		f.mu.Unlock()
		return nil
	}

	f.loading = true
	f.errMsg = ""
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	cf, err := f.provider.Lookup(ctx, name)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Error("lookup failed", "city", name, "error", err)
		f.errMsg = errorMessage(err)
		return nil
	}

	f.city = cf.Name
	if f.city == "" {
		f.city = name
	}
	f.facts = cf.Facts
	f.errMsg = ""
	return nil
}

// errorMessage maps a lookup failure to the user-visible text: the
// service's own detail when it sent one, the generic fallback otherwise.
func errorMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return FallbackMessage
}
