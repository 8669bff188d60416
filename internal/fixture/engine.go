package fixture

import (
	"math"
	"sort"
	"strings"

	"github.com/sickscan/sickscan-tui/internal/symptom"
)

const maxPredictions = 5

type entry struct {
	id      symptom.ID
	name    string
	phrases []string
}

type disease struct {
	name     string
	symptoms []symptom.ID
}

// Engine answers catalog, analyze and predict queries from a fixture.
type Engine struct {
	entries  []entry
	names    map[symptom.ID]string
	diseases []disease
}

func NewEngine(fx *Fixture) *Engine {
	e := &Engine{names: make(map[symptom.ID]string)}

	for _, s := range fx.Symptoms {
		id, err := toID(s.ID)
		if err != nil {
			continue
		}
		ent := entry{id: id, name: s.Name}
		for _, p := range append([]string{s.Name}, s.Phrases...) {
			if key := phraseKey(p); key != "" {
				ent.phrases = append(ent.phrases, key)
			}
		}
		e.entries = append(e.entries, ent)
		e.names[id] = s.Name
	}

	for _, d := range fx.Diseases {
		dis := disease{name: d.Name}
		for _, raw := range d.Symptoms {
			if id, err := toID(raw); err == nil {
				dis.symptoms = append(dis.symptoms, id)
			}
		}
		e.diseases = append(e.diseases, dis)
	}
	return e
}

func (e *Engine) Catalog() []symptom.Symptom {
	out := make([]symptom.Symptom, 0, len(e.entries))
	for _, ent := range e.entries {
		out = append(out, symptom.Symptom{ID: ent.id, Name: ent.name})
	}
	return out
}

// Detect returns catalog symptoms whose name or phrases appear in text as
// whole words, in catalog order.
func (e *Engine) Detect(text string) []symptom.Symptom {
	key := phraseKey(text)
	if key == "" {
		return nil
	}

	var out []symptom.Symptom
	for _, ent := range e.entries {
		for _, p := range ent.phrases {
			if strings.Contains(key, p) {
				out = append(out, symptom.Symptom{ID: ent.id, Name: ent.name, Confidence: 100})
				break
			}
		}
	}
	return out
}

// Rank scores each disease by the share of its symptoms present in ids.
func (e *Engine) Rank(ids []symptom.ID) []symptom.Prediction {
	have := make(map[symptom.ID]bool, len(ids))
	for _, id := range ids {
		have[id] = true
	}

	var out []symptom.Prediction
	for _, d := range e.diseases {
		if len(d.symptoms) == 0 {
			continue
		}
		matched := 0
		common := make([]string, 0, len(d.symptoms))
		for _, id := range d.symptoms {
			if have[id] {
				matched++
			}
			common = append(common, e.names[id])
		}
		if matched == 0 {
			continue
		}
		sort.Strings(common)
		score := float64(matched) / float64(len(d.symptoms)) * 100
		out = append(out, symptom.Prediction{
			Disease:        d.name,
			Confidence:     math.Round(score*100) / 100,
			CommonSymptoms: common,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Disease < out[j].Disease
	})
	if len(out) > maxPredictions {
		out = out[:maxPredictions]
	}
	return out
}
