// Package symptom holds the client-side symptom model: identifiers, the
// name/id lookup table built from the service catalog, the ordered selection
// set and the resolvers that feed it.
package symptom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var ErrInvalidID = errors.New("invalid symptom id")

// ID is an opaque symptom identifier. The service may use strings or numbers;
// the JSON kind is kept so ids round-trip unchanged.
type ID struct {
	text    string
	numeric bool
}

func StringID(s string) ID {
	return ID{text: s}
}

func NumberID(n int64) ID {
	return ID{text: strconv.FormatInt(n, 10), numeric: true}
}

func (id ID) String() string {
	return id.text
}

func (id ID) IsZero() bool {
	return id.text == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrInvalidID
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		if s == "" {
			return ErrInvalidID
		}
		*id = StringID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	*id = ID{text: n.String(), numeric: true}
	return nil
}

// NormalizeName folds a symptom name into its lookup key: NFKC, Unicode case
// folding, trimmed and with inner whitespace collapsed.
func NormalizeName(name string) string {
	folded := cases.Fold().String(norm.NFKC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}
