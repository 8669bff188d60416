package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sickscan/sickscan-tui/internal/client"
	"github.com/sickscan/sickscan-tui/internal/symptom"
)

// stubService answers from canned values and counts calls. When gate is set,
// Analyze and Predict block until it is closed or the context ends.
type stubService struct {
	mu          sync.Mutex
	catalog     []symptom.Symptom
	catalogErr  error
	analysis    *client.AnalyzeResult
	analyzeErr  error
	predictions []symptom.Prediction
	predictErr  error
	gate        chan struct{}
	started     chan struct{}

	analyzeCalls int
	predictCalls int
	lastPredict  []symptom.ID
}

func (s *stubService) wait(ctx context.Context) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubService) FetchCatalog(ctx context.Context) ([]symptom.Symptom, error) {
	return s.catalog, s.catalogErr
}

func (s *stubService) Analyze(ctx context.Context, text string) (*client.AnalyzeResult, error) {
	s.mu.Lock()
	s.analyzeCalls++
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.analysis, s.analyzeErr
}

func (s *stubService) Predict(ctx context.Context, ids []symptom.ID) ([]symptom.Prediction, error) {
	s.mu.Lock()
	s.predictCalls++
	s.lastPredict = ids
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.predictions, s.predictErr
}

func scenarioService() *stubService {
	return &stubService{
		catalog: []symptom.Symptom{
			{ID: symptom.NumberID(1), Name: "fever"},
			{ID: symptom.NumberID(2), Name: "cough"},
		},
		analysis: &client.AnalyzeResult{
			Symptoms: []symptom.Symptom{{ID: symptom.NumberID(1), Name: "fever"}},
		},
		predictions: []symptom.Prediction{
			{Disease: "Flu", Confidence: 80, CommonSymptoms: []string{"fever", "cough"}},
		},
	}
}

func loadedSession(t *testing.T, svc *stubService, opts ...Option) *Session {
	t.Helper()
	s := New(svc, opts...)
	t.Cleanup(s.Close)
	if _, err := s.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return s
}

func TestScenarioAnalyzeManualPredict(t *testing.T) {
	svc := scenarioService()
	s := loadedSession(t, svc)
	ctx := context.Background()

	added, err := s.Analyze(ctx, "I feel hot")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(added) != 1 || added[0].Name != "fever" || s.Size() != 1 {
		t.Fatalf("expected {1} with tag fever, got %+v size %d", added, s.Size())
	}

	e, ok, err := s.AddManual("Cough")
	if err != nil || !ok {
		t.Fatalf("manual add: %v %v", ok, err)
	}
	if e.ID != symptom.NumberID(2) || e.Name != "cough" || s.Size() != 2 {
		t.Errorf("expected id 2 tag cough size 2, got %+v size %d", e, s.Size())
	}

	_, _, err = s.AddManual("headache")
	if Classify(err) != KindNotRecognized || s.Size() != 2 {
		t.Errorf("expected not recognized with size 2, got %v size %d", err, s.Size())
	}

	preds, err := s.Predict(ctx)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(preds) != 1 || preds[0].Disease != "Flu" {
		t.Errorf("unexpected predictions %+v", preds)
	}
	if len(svc.lastPredict) != 2 || svc.lastPredict[0] != symptom.NumberID(1) || svc.lastPredict[1] != symptom.NumberID(2) {
		t.Errorf("expected ids in tag order, got %v", svc.lastPredict)
	}
}

func TestPredictEmptySelectionSendsNothing(t *testing.T) {
	svc := scenarioService()
	s := loadedSession(t, svc)

	_, err := s.Predict(context.Background())
	if !errors.Is(err, ErrNoSymptoms) {
		t.Fatalf("expected ErrNoSymptoms, got %v", err)
	}
	if svc.predictCalls != 0 {
		t.Errorf("expected no request, got %d", svc.predictCalls)
	}
	n, shown := s.Report("predict", err)
	if !shown || n.Message != "Please add at least one symptom." {
		t.Errorf("unexpected notice %+v shown=%v", n, shown)
	}
}

func TestAnalyzeEmptyTextIsSilentNoop(t *testing.T) {
	svc := scenarioService()
	s := loadedSession(t, svc)

	_, err := s.Analyze(context.Background(), "   ")
	if !errors.Is(err, symptom.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if svc.analyzeCalls != 0 {
		t.Error("empty text should not reach the service")
	}
	if _, shown := s.Report("analyze", err); shown {
		t.Error("empty input should not be surfaced")
	}
}

func TestAnalyzeServiceErrorLeavesState(t *testing.T) {
	svc := scenarioService()
	svc.analyzeErr = &client.ServiceError{Status: 400, Message: "No text provided"}
	s := loadedSession(t, svc)
	s.AddManual("cough")

	_, err := s.Analyze(context.Background(), "x")
	if Classify(err) != KindService {
		t.Fatalf("expected service error, got %v", err)
	}
	if s.Size() != 1 {
		t.Errorf("selection changed on error: %d", s.Size())
	}
	n, shown := s.Report("analyze", err)
	if !shown || n.Message != "No text provided" {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestTransportErrorIsSurfaced(t *testing.T) {
	svc := scenarioService()
	svc.predictErr = &client.TransportError{Op: "POST /predict", Err: errors.New("connection refused")}
	s := loadedSession(t, svc)
	s.AddManual("fever")

	_, err := s.Predict(context.Background())
	n, shown := s.Report("predict", err)
	if !shown || n.Kind != KindTransport {
		t.Errorf("expected surfaced transport notice, got %+v", n)
	}
}

func TestCatalogFailure(t *testing.T) {
	svc := scenarioService()
	svc.catalogErr = &client.TransportError{Op: "GET /all_symptoms", Err: errors.New("refused")}
	s := New(svc)
	defer s.Close()

	_, err := s.LoadCatalog(context.Background())
	if Classify(err) != KindCatalog {
		t.Fatalf("expected catalog kind, got %v", err)
	}

	_, _, err = s.AddManual("fever")
	if Classify(err) != KindCatalog {
		t.Errorf("manual add without catalog should report catalog, got %v", err)
	}
	if s.CatalogErr() == nil {
		t.Error("catalog error should be kept")
	}

	svc.catalogErr = nil
	if n, err := s.LoadCatalog(context.Background()); err != nil || n != 2 {
		t.Fatalf("retry: %d %v", n, err)
	}
	if _, ok, err := s.AddManual("fever"); err != nil || !ok {
		t.Errorf("manual add after retry: %v %v", ok, err)
	}
}

func TestRemoveAndReset(t *testing.T) {
	s := loadedSession(t, scenarioService())
	s.AddManual("fever")
	s.AddManual("cough")

	if s.Remove(symptom.NumberID(9)) {
		t.Error("removing absent id should report false")
	}
	if !s.Remove(symptom.NumberID(1)) || s.Size() != 1 {
		t.Errorf("remove failed, size %d", s.Size())
	}

	s.Reset()
	if s.Size() != 0 {
		t.Errorf("reset left %d", s.Size())
	}
	if !s.CatalogLoaded() || len(s.Catalog()) != 2 {
		t.Error("reset must keep the catalog")
	}
}

func TestSelectFromCatalog(t *testing.T) {
	s := loadedSession(t, scenarioService())

	e, ok, err := s.Select(symptom.NumberID(2), symptom.SourceCatalog)
	if err != nil || !ok || e.Name != "cough" {
		t.Fatalf("select: %+v %v %v", e, ok, err)
	}
	if _, ok, _ := s.Select(symptom.NumberID(2), symptom.SourceCatalog); ok {
		t.Error("second select should not add")
	}
	if _, _, err := s.Select(symptom.NumberID(5), symptom.SourceCatalog); !errors.Is(err, symptom.ErrNotRecognized) {
		t.Errorf("expected ErrNotRecognized, got %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	s := loadedSession(t, scenarioService())
	s.AddManual("fever")

	got := s.Suggestions([]symptom.Prediction{
		{Disease: "Flu", CommonSymptoms: []string{"Fever", "Cough", "headache"}},
		{Disease: "Cold", CommonSymptoms: []string{"cough"}},
	})
	if len(got) != 1 || got[0].ID != symptom.NumberID(2) || got[0].Name != "cough" {
		t.Errorf("expected only cough, got %+v", got)
	}
}

func TestAnalyzeFallsBackToDetectedIDs(t *testing.T) {
	svc := scenarioService()
	svc.analysis = &client.AnalyzeResult{DetectedIDs: []symptom.ID{symptom.NumberID(2)}}
	s := loadedSession(t, svc)

	added, err := s.Analyze(context.Background(), "coughing")
	if err != nil || len(added) != 1 || added[0].Name != "cough" {
		t.Errorf("expected cough from detected ids, got %+v %v", added, err)
	}
}

func TestResetDiscardsInFlightAnalysis(t *testing.T) {
	svc := scenarioService()
	svc.gate = make(chan struct{})
	svc.started = make(chan struct{}, 1)
	s := loadedSession(t, svc)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background(), "fever")
		errc <- err
	}()

	<-svc.started
	s.Reset()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrStale) {
			t.Errorf("expected ErrStale, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reset did not cancel the request")
	}
	if s.Size() != 0 {
		t.Errorf("stale analysis mutated selection: %d", s.Size())
	}
	if _, shown := s.Report("analyze", ErrStale); shown {
		t.Error("stale responses should not be surfaced")
	}
}

func TestStaleResponsesAppliedWhenConfigured(t *testing.T) {
	svc := scenarioService()
	svc.gate = make(chan struct{})
	svc.started = make(chan struct{}, 1)
	s := loadedSession(t, svc, WithStaleResponses(true))

	errc := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background(), "fever")
		errc <- err
	}()

	<-svc.started
	s.Reset()
	close(svc.gate)

	if err := <-errc; err != nil {
		t.Fatalf("expected stale analysis to apply, got %v", err)
	}
	if s.Size() != 1 {
		t.Errorf("expected stale result applied, size %d", s.Size())
	}
}

func TestConcurrentMutationsKeepInvariant(t *testing.T) {
	svc := scenarioService()
	s := loadedSession(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.Analyze(context.Background(), "fever")
		}()
		go func() {
			defer wg.Done()
			s.AddManual("cough")
		}()
		go func() {
			defer wg.Done()
			s.Remove(symptom.NumberID(1))
		}()
	}
	wg.Wait()

	entries := s.Entries()
	seen := map[symptom.ID]bool{}
	for _, e := range entries {
		if seen[e.ID] {
			t.Fatalf("duplicate entry %v", e.ID)
		}
		seen[e.ID] = true
	}
	if len(entries) != s.Size() {
		t.Errorf("entries %d, size %d", len(entries), s.Size())
	}
}
