package symptom

import "strings"

// Lookup is the two-way name/id table built from the service catalog. It is
// append-only: loading again only adds ids it has not seen.
type Lookup struct {
	nameToID map[string]ID
	idToName map[ID]string
	idByText map[string]ID
	order    []ID
	loaded   bool
}

func NewLookup() *Lookup {
	return &Lookup{
		nameToID: make(map[string]ID),
		idToName: make(map[ID]string),
		idByText: make(map[string]ID),
	}
}

// Load adds catalog entries and returns how many ids were new. The first name
// seen for an id is canonical; the first id seen for a name owns that name.
// Entries without a name use the id text as their name.
func (l *Lookup) Load(catalog []Symptom) int {
	added := 0
	for _, s := range catalog {
		if s.ID.IsZero() {
			continue
		}
		if _, ok := l.idToName[s.ID]; ok {
			continue
		}

		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = s.ID.String()
		}

		l.idToName[s.ID] = name
		l.order = append(l.order, s.ID)
		if _, ok := l.idByText[s.ID.String()]; !ok {
			l.idByText[s.ID.String()] = s.ID
		}
		key := NormalizeName(name)
		if _, ok := l.nameToID[key]; !ok {
			l.nameToID[key] = s.ID
		}
		added++
	}
	l.loaded = true
	return added
}

func (l *Lookup) Loaded() bool {
	return l.loaded
}

func (l *Lookup) Len() int {
	return len(l.order)
}

// ResolveByName matches text against canonical names, ignoring case.
func (l *Lookup) ResolveByName(text string) (ID, bool) {
	id, ok := l.nameToID[NormalizeName(text)]
	return id, ok
}

func (l *Lookup) ResolveByID(id ID) (string, bool) {
	name, ok := l.idToName[id]
	return name, ok
}

// ResolveIDText treats text as a literal identifier and matches it against
// the textual form of catalog ids.
func (l *Lookup) ResolveIDText(text string) (ID, bool) {
	id, ok := l.idByText[strings.TrimSpace(text)]
	return id, ok
}

// Symptoms returns the catalog in load order.
func (l *Lookup) Symptoms() []Symptom {
	out := make([]Symptom, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, Symptom{ID: id, Name: l.idToName[id]})
	}
	return out
}

// Names returns canonical names in load order.
func (l *Lookup) Names() []string {
	out := make([]string, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.idToName[id])
	}
	return out
}
