package symptom

// Symptom is one catalog or analysis entry as the service sends it.
type Symptom struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Prediction is one ranked disease returned by the prediction endpoint.
type Prediction struct {
	Disease        string   `json:"disease"`
	Confidence     float64  `json:"confidence"`
	CommonSymptoms []string `json:"common_symptoms"`
}

// Source records which input channel added a selection entry.
type Source int

const (
	SourceManual Source = iota
	SourceAnalysis
	SourceCatalog
	SourceSuggestion
)

func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceAnalysis:
		return "analysis"
	case SourceCatalog:
		return "catalog"
	case SourceSuggestion:
		return "suggestion"
	default:
		return "unknown"
	}
}
