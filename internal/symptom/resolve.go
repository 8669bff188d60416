package symptom

import (
	"errors"
	"strings"
)

var (
	ErrEmptyInput         = errors.New("empty input")
	ErrNotRecognized      = errors.New("symptom not recognized")
	ErrCatalogUnavailable = errors.New("symptom catalog is not loaded")
)

// ResolveManual turns typed text into a selection entry. Names are matched
// first, ignoring case; failing that the text is tried as a literal id. The
// entry carries the canonical name when the catalog has one.
func ResolveManual(l *Lookup, text string) (Entry, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return Entry{}, ErrEmptyInput
	}
	if l == nil || !l.Loaded() {
		return Entry{}, ErrCatalogUnavailable
	}

	id, ok := l.ResolveByName(raw)
	if !ok {
		id, ok = l.ResolveIDText(raw)
	}
	if !ok {
		return Entry{}, ErrNotRecognized
	}

	name, ok := l.ResolveByID(id)
	if !ok || name == "" {
		name = raw
	}
	return Entry{ID: id, Name: name, Source: SourceManual}, nil
}

// ApplyDetected adds analysis results to sel in the order given and returns
// the entries that were new. A result without a name takes the catalog name.
func ApplyDetected(sel *Selection, l *Lookup, detected []Symptom) []Entry {
	var added []Entry
	for _, d := range detected {
		name := strings.TrimSpace(d.Name)
		if name == "" && l != nil {
			name, _ = l.ResolveByID(d.ID)
		}
		e := Entry{ID: d.ID, Name: name, Confidence: d.Confidence, Source: SourceAnalysis}
		if sel.AddEntry(e) {
			if e.Name == "" {
				e.Name = e.ID.String()
			}
			added = append(added, e)
		}
	}
	return added
}
