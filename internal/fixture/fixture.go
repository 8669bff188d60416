// Package fixture serves the symptom-checker endpoints from a static catalog
// and disease table. It gives the client something deterministic to talk to
// during development and in tests.
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/sickscan/sickscan-tui/internal/symptom"
)

//go:embed default.yaml
var defaultFixture []byte

var (
	ErrDuplicateID    = errors.New("duplicate symptom id")
	ErrUnknownSymptom = errors.New("disease references unknown symptom")
)

type Fixture struct {
	Symptoms []SymptomDef `yaml:"symptoms"`
	Diseases []DiseaseDef `yaml:"diseases"`
}

type SymptomDef struct {
	ID      interface{} `yaml:"id"`
	Name    string      `yaml:"name"`
	Phrases []string    `yaml:"phrases"`
}

type DiseaseDef struct {
	Name     string        `yaml:"name"`
	Symptoms []interface{} `yaml:"symptoms"`
}

// Load reads a fixture file, or the embedded default when path is empty.
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Parse(defaultFixture)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

func Default() *Fixture {
	fx, err := Parse(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("embedded fixture is invalid: %v", err))
	}
	return fx
}

func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	seen := make(map[symptom.ID]bool)
	for i, s := range fx.Symptoms {
		id, err := toID(s.ID)
		if err != nil {
			return fmt.Errorf("symptom %d: %w", i, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
	}

	for _, d := range fx.Diseases {
		for _, raw := range d.Symptoms {
			id, err := toID(raw)
			if err != nil {
				return fmt.Errorf("disease %q: %w", d.Name, err)
			}
			if !seen[id] {
				return fmt.Errorf("%w: %q -> %s", ErrUnknownSymptom, d.Name, id)
			}
		}
	}
	return nil
}

func toID(v interface{}) (symptom.ID, error) {
	switch t := v.(type) {
	case int:
		return symptom.NumberID(int64(t)), nil
	case int64:
		return symptom.NumberID(t), nil
	case string:
		if t == "" {
			return symptom.ID{}, symptom.ErrInvalidID
		}
		return symptom.StringID(t), nil
	default:
		return symptom.ID{}, fmt.Errorf("%w: %v", symptom.ErrInvalidID, v)
	}
}

// phraseKey lowers text and reduces it to space-separated words so phrases
// match on word boundaries only.
func phraseKey(text string) string {
	words := strings.FieldsFunc(symptom.NormalizeName(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	return " " + strings.Join(words, " ") + " "
}
