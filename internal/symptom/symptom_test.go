package symptom

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func testCatalog() []Symptom {
	return []Symptom{
		{ID: NumberID(1), Name: "fever"},
		{ID: NumberID(2), Name: "cough"},
	}
}

func TestIDUnmarshalKeepsKind(t *testing.T) {
	var got []Symptom
	body := `[{"id":1,"name":"fever"},{"id":"skin_rash","name":"Skin Rash"}]`
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got[0].ID != NumberID(1) {
		t.Errorf("expected numeric id 1, got %#v", got[0].ID)
	}
	if got[1].ID != StringID("skin_rash") {
		t.Errorf("expected string id skin_rash, got %#v", got[1].ID)
	}

	out, err := json.Marshal([]ID{got[0].ID, got[1].ID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `[1,"skin_rash"]` {
		t.Errorf("unexpected encoding %s", out)
	}
}

func TestIDUnmarshalRejectsInvalid(t *testing.T) {
	for _, in := range []string{`""`, `true`, `{}`} {
		var id ID
		if err := json.Unmarshal([]byte(in), &id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("%s: expected ErrInvalidID, got %v", in, err)
		}
	}
}

func TestNumericAndStringIDsDiffer(t *testing.T) {
	if NumberID(1) == StringID("1") {
		t.Error("numeric and string ids should not compare equal")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Cough":             "cough",
		"  Sore   Throat  ": "sore throat",
		"ＦＥＶＥＲ":             "fever",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupBothDirections(t *testing.T) {
	l := NewLookup()
	if n := l.Load(testCatalog()); n != 2 {
		t.Fatalf("expected 2 loaded, got %d", n)
	}

	id, ok := l.ResolveByName("COUGH")
	if !ok || id != NumberID(2) {
		t.Errorf("expected cough -> 2, got %v %v", id, ok)
	}
	name, ok := l.ResolveByID(NumberID(1))
	if !ok || name != "fever" {
		t.Errorf("expected 1 -> fever, got %q %v", name, ok)
	}
	if _, ok := l.ResolveByName("headache"); ok {
		t.Error("headache should not resolve")
	}
}

func TestLookupAppendOnly(t *testing.T) {
	l := NewLookup()
	l.Load(testCatalog())
	n := l.Load([]Symptom{
		{ID: NumberID(1), Name: "pyrexia"},
		{ID: NumberID(3), Name: "fever"},
		{ID: StringID("nausea")},
	})
	if n != 2 {
		t.Fatalf("expected 2 new ids, got %d", n)
	}
	if name, _ := l.ResolveByID(NumberID(1)); name != "fever" {
		t.Errorf("canonical name changed to %q", name)
	}
	if id, _ := l.ResolveByName("fever"); id != NumberID(1) {
		t.Errorf("name owner changed to %v", id)
	}
	if name, _ := l.ResolveByID(StringID("nausea")); name != "nausea" {
		t.Errorf("nameless entry should use id text, got %q", name)
	}
	if l.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", l.Len())
	}
}

func TestSelectionAddIsIdempotent(t *testing.T) {
	s := NewSelection()
	if !s.Add(NumberID(1), "fever") {
		t.Fatal("first add should report true")
	}
	if s.Add(NumberID(1), "Fever") {
		t.Error("second add should report false")
	}
	if s.Size() != 1 {
		t.Errorf("expected size 1, got %d", s.Size())
	}
	if got := s.Entries()[0].Name; got != "fever" {
		t.Errorf("duplicate add replaced name with %q", got)
	}
}

func TestSelectionRemoveAbsentIsNoop(t *testing.T) {
	s := NewSelection()
	s.Add(NumberID(1), "fever")
	if s.Remove(NumberID(9)) {
		t.Error("removing absent id should report false")
	}
	if s.Size() != 1 {
		t.Errorf("expected size 1, got %d", s.Size())
	}
}

func TestSelectionKeepsInsertionOrder(t *testing.T) {
	s := NewSelection()
	s.Add(StringID("a"), "a")
	s.Add(StringID("b"), "b")
	s.Add(StringID("c"), "c")
	s.Remove(StringID("b"))
	s.Add(StringID("b"), "b")

	ids := s.IDs()
	want := []string{"a", "c", "b"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", ids, want)
		}
	}
	if !s.Has(StringID("c")) {
		t.Error("expected c to be present")
	}
}

func TestSelectionSizeMatchesDistinctIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewSelection()
	present := map[ID]bool{}

	for i := 0; i < 2000; i++ {
		id := NumberID(int64(rng.Intn(20)))
		if rng.Intn(3) == 0 {
			s.Remove(id)
			delete(present, id)
		} else {
			s.Add(id, id.String())
			present[id] = true
		}
		if s.Size() != len(present) {
			t.Fatalf("step %d: size %d, distinct %d", i, s.Size(), len(present))
		}
		if len(s.Entries()) != s.Size() {
			t.Fatalf("step %d: %d entries for size %d", i, len(s.Entries()), s.Size())
		}
	}

	s.Clear()
	if s.Size() != 0 || len(s.IDs()) != 0 {
		t.Errorf("clear left %d entries", s.Size())
	}
}

func TestResolveManual(t *testing.T) {
	l := NewLookup()
	l.Load(append(testCatalog(), Symptom{ID: StringID("skin_rash"), Name: "Skin Rash"}))

	tests := []struct {
		name    string
		input   string
		wantID  ID
		wantTag string
		wantErr error
	}{
		{"mixed case name", "Cough", NumberID(2), "cough", nil},
		{"padded name", "  fever ", NumberID(1), "fever", nil},
		{"literal id", "skin_rash", StringID("skin_rash"), "Skin Rash", nil},
		{"numeric id text", "2", NumberID(2), "cough", nil},
		{"unknown", "headache", ID{}, "", ErrNotRecognized},
		{"blank", "   ", ID{}, "", ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ResolveManual(l, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				return
			}
			if e.ID != tt.wantID || e.Name != tt.wantTag {
				t.Errorf("got %v %q, want %v %q", e.ID, e.Name, tt.wantID, tt.wantTag)
			}
		})
	}
}

func TestResolveManualWithoutCatalog(t *testing.T) {
	if _, err := ResolveManual(NewLookup(), "fever"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestApplyDetected(t *testing.T) {
	l := NewLookup()
	l.Load(testCatalog())
	sel := NewSelection()
	sel.Add(NumberID(2), "cough")

	added := ApplyDetected(sel, l, []Symptom{
		{ID: NumberID(1), Name: "fever", Confidence: 92},
		{ID: NumberID(2), Name: "cough", Confidence: 88},
		{ID: NumberID(1), Name: "fever"},
	})
	if len(added) != 1 || added[0].ID != NumberID(1) {
		t.Fatalf("expected only fever added, got %+v", added)
	}
	if added[0].Confidence != 92 || added[0].Source != SourceAnalysis {
		t.Errorf("unexpected entry %+v", added[0])
	}
	if sel.Size() != 2 {
		t.Errorf("expected size 2, got %d", sel.Size())
	}
}

func TestApplyDetectedFillsMissingName(t *testing.T) {
	l := NewLookup()
	l.Load(testCatalog())
	sel := NewSelection()

	added := ApplyDetected(sel, l, []Symptom{{ID: NumberID(2)}, {ID: NumberID(7)}})
	if len(added) != 2 {
		t.Fatalf("expected 2 added, got %d", len(added))
	}
	if added[0].Name != "cough" {
		t.Errorf("expected catalog name, got %q", added[0].Name)
	}
	if added[1].Name != "7" {
		t.Errorf("expected id text fallback, got %q", added[1].Name)
	}
}
