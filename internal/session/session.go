// Package session owns the symptom selection for one run of the client. It
// holds the catalog lookup and the selection set, talks to the service through
// an injected Service, and serialises every mutation so results from
// concurrent requests and direct user edits interleave safely.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sickscan/sickscan-tui/internal/client"
	"github.com/sickscan/sickscan-tui/internal/symptom"
)

// Service is the remote symptom checker. *client.Client satisfies it.
type Service interface {
	FetchCatalog(ctx context.Context) ([]symptom.Symptom, error)
	Analyze(ctx context.Context, text string) (*client.AnalyzeResult, error)
	Predict(ctx context.Context, ids []symptom.ID) ([]symptom.Prediction, error)
}

type Session struct {
	mu     sync.Mutex
	svc    Service
	lookup *symptom.Lookup
	sel    *symptom.Selection

	catalogErr error

	// gen advances on every reset; requests started under an older
	// generation are stale when they settle.
	gen    uint64
	base   context.Context
	cancel context.CancelFunc

	applyStale bool
	logger     zerolog.Logger
}

type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStaleResponses keeps in-flight requests alive across a reset and
// applies their results when they arrive.
func WithStaleResponses(apply bool) Option {
	return func(s *Session) {
		s.applyStale = apply
	}
}

func New(svc Service, opts ...Option) *Session {
	s := &Session{
		svc:    svc,
		lookup: symptom.NewLookup(),
		sel:    symptom.NewSelection(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base, s.cancel = context.WithCancel(context.Background())
	return s
}

// Close cancels every request still in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// begin derives a request context that also ends when the current
// generation is reset.
func (s *Session) begin(parent context.Context) (context.Context, func(), uint64) {
	s.mu.Lock()
	gen, base := s.gen, s.base
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, gen
}

// stale must be called with mu held.
func (s *Session) stale(gen uint64) bool {
	return gen != s.gen && !s.applyStale
}

// LoadCatalog fetches the symptom catalog and adds it to the lookup. It may be
// called again after a failure; entries already loaded are kept.
func (s *Session) LoadCatalog(ctx context.Context) (int, error) {
	catalog, err := s.svc.FetchCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.catalogErr = err
		s.logger.Error().Err(err).Msg("catalog load failed")
		return 0, fmt.Errorf("%w: %w", symptom.ErrCatalogUnavailable, err)
	}

	s.catalogErr = nil
	added := s.lookup.Load(catalog)
	s.logger.Info().Int("added", added).Int("total", s.lookup.Len()).Msg("catalog loaded")
	return added, nil
}

// Analyze sends free text to the service and adds every detected symptom in
// the order returned. It returns the entries that were new to the selection.
func (s *Session) Analyze(ctx context.Context, text string) ([]symptom.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, symptom.ErrEmptyInput
	}

	ctx, done, gen := s.begin(ctx)
	defer done()

	res, err := s.svc.Analyze(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale(gen) {
		s.logger.Debug().Err(err).Msg("discarding analysis after reset")
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}

	if res == nil {
		res = &client.AnalyzeResult{}
	}
	detected := res.Symptoms
	if len(detected) == 0 {
		for _, id := range res.DetectedIDs {
			detected = append(detected, symptom.Symptom{ID: id})
		}
	}

	added := symptom.ApplyDetected(s.sel, s.lookup, detected)
	s.logger.Info().
		Int("detected", len(detected)).
		Int("added", len(added)).
		Int("selected", s.sel.Size()).
		Msg("analysis applied")
	return added, nil
}

// AddManual resolves typed text against the catalog and selects it. The bool
// is false when the symptom was already selected.
func (s *Session) AddManual(text string) (symptom.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := symptom.ResolveManual(s.lookup, text)
	if err != nil {
		if s.catalogErr != nil && errors.Is(err, symptom.ErrCatalogUnavailable) {
			err = fmt.Errorf("%w: %w", err, s.catalogErr)
		}
		return symptom.Entry{}, false, err
	}

	added := s.sel.AddEntry(e)
	if added {
		s.logger.Info().Str("symptom_id", e.ID.String()).Int("selected", s.sel.Size()).Msg("symptom added")
	}
	return e, added, nil
}

// Select adds a catalog symptom by id, as picked from a list rather than
// typed.
func (s *Session) Select(id symptom.ID, source symptom.Source) (symptom.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.lookup.ResolveByID(id)
	if !ok {
		return symptom.Entry{}, false, symptom.ErrNotRecognized
	}
	e := symptom.Entry{ID: id, Name: name, Source: source}
	added := s.sel.AddEntry(e)
	if added {
		s.logger.Info().Str("symptom_id", id.String()).Str("source", source.String()).Int("selected", s.sel.Size()).Msg("symptom added")
	}
	return e, added, nil
}

// Remove drops id from the selection. Removing an absent id is a no-op.
func (s *Session) Remove(id symptom.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sel.Remove(id)
	if removed {
		s.logger.Info().Str("symptom_id", id.String()).Int("selected", s.sel.Size()).Msg("symptom removed")
	}
	return removed
}

// Predict sends the current selection, in tag order, to the service.
func (s *Session) Predict(ctx context.Context) ([]symptom.Prediction, error) {
	s.mu.Lock()
	ids := s.sel.IDs()
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil, ErrNoSymptoms
	}

	ctx, done, gen := s.begin(ctx)
	defer done()

	preds, err := s.svc.Predict(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale(gen) {
		s.logger.Debug().Err(err).Msg("discarding prediction after reset")
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("symptoms", len(ids)).Int("predictions", len(preds)).Msg("prediction received")
	return preds, nil
}

// Reset clears the selection and, unless stale responses are applied,
// cancels every request still in flight. The catalog is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.Clear()
	s.gen++
	if !s.applyStale {
		s.cancel()
		s.base, s.cancel = context.WithCancel(context.Background())
	}
	s.logger.Info().Uint64("generation", s.gen).Msg("session reset")
}

// Report logs err and turns it into a notice. The bool is false for failures
// that are not shown to the user.
func (s *Session) Report(action string, err error) (Notice, bool) {
	if err == nil {
		return Notice{}, false
	}
	n := noticeFor(action, err)

	evt := s.logger.Warn()
	if n.Kind == KindTransport {
		evt = s.logger.Error()
	} else if !n.Kind.Surfaced() {
		evt = s.logger.Debug()
	}
	evt.Err(err).Str("action", action).Str("kind", n.Kind.String()).Msg("operation failed")

	return n, n.Kind.Surfaced()
}

func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Size()
}

func (s *Session) Entries() []symptom.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Entries()
}

func (s *Session) Has(id symptom.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Has(id)
}

func (s *Session) CatalogLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup.Loaded()
}

func (s *Session) CatalogErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogErr
}

func (s *Session) Catalog() []symptom.Symptom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup.Symptoms()
}

func (s *Session) CatalogNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup.Names()
}

// Suggestions lists common symptoms of preds that the catalog knows and that
// are not selected yet, in prediction order without repeats.
func (s *Session) Suggestions(preds []symptom.Prediction) []symptom.Symptom {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[symptom.ID]bool)
	var out []symptom.Symptom
	for _, p := range preds {
		for _, name := range p.CommonSymptoms {
			id, ok := s.lookup.ResolveByName(name)
			if !ok || seen[id] || s.sel.Has(id) {
				continue
			}
			seen[id] = true
			canonical, _ := s.lookup.ResolveByID(id)
			out = append(out, symptom.Symptom{ID: id, Name: canonical})
		}
	}
	return out
}
