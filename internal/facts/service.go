// Package facts implements the lookup flow over the city-facts service:
// read stored facts, fall back to generation on a miss, and persist freshly
// generated facts before handing them back.
package facts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/cityfacts/internal/backend"
)

// Store reads and writes persisted city facts.
type Store interface {
	Facts(ctx context.Context, name string) (backend.CityFacts, error)
	Save(ctx context.Context, name, facts string) error
}

// Generator produces fresh facts for a city the store has never seen.
type Generator interface {
	Generate(ctx context.Context, name string) (backend.CityFacts, error)
}

// Service resolves a city name to a facts blob.
type Service struct {
	store  Store
	gen    Generator
	logger *slog.Logger
}

// New creates a Service with the given collaborators. A *backend.Client
// satisfies both.
func New(store Store, gen Generator) *Service {
	return &Service{
		store:  store,
		gen:    gen,
		logger: slog.Default(),
	}
}

// Lookup returns facts for the named city. Stored facts win; on a miss the
// generator is asked, and its output is persisted before being returned so
// the next lookup is a plain read. A persist failure fails the lookup.
func (s *Service) Lookup(ctx context.Context, name string) (backend.CityFacts, error) {
	cf, err := s.store.Facts(ctx, name)
	if err != nil {
		return backend.CityFacts{}, err
	}
	if cf.Facts != "" {
		s.logger.Debug("stored facts hit", "city", cf.Name)
		return cf, nil
	}

	s.logger.Info("no stored facts, generating", "city", name)
	generated, err := s.gen.Generate(ctx, name)
	if err != nil {
		return backend.CityFacts{}, err
	}

	if err := s.store.Save(ctx, name, generated.Facts); err != nil {
		return backend.CityFacts{}, fmt.Errorf("persisting generated facts: %w", err)
	}
	return generated, nil
}

// Lines splits a facts blob into its display lines. Blank lines are
// dropped; order is preserved.
func Lines(facts string) []string {
	var lines []string
	for _, line := range strings.Split(facts, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Numbered renders a facts blob as a numbered list under a banner, one
// entry per non-blank line.
func Numbered(name, facts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✨ %s ✨\n\n", strings.ToUpper(name))
	b.WriteString("Here are some interesting facts:\n\n")
	for i, line := range Lines(facts) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(line))
	}
	return b.String()
}
