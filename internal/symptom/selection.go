package symptom

// Entry is one selected symptom as shown in the tag strip.
type Entry struct {
	ID         ID
	Name       string
	Confidence float64
	Source     Source
}

// Selection is an ordered set of symptom ids. Insertion order is tag order.
// It is not safe for concurrent use; the session serialises access.
type Selection struct {
	entries []Entry
	index   map[ID]int
}

func NewSelection() *Selection {
	return &Selection{index: make(map[ID]int)}
}

// Add inserts id with a display name. It reports false and changes nothing
// when id is already selected.
func (s *Selection) Add(id ID, name string) bool {
	return s.add(Entry{ID: id, Name: name, Source: SourceManual})
}

// AddEntry is Add with the full entry, used by resolvers that know the source
// and the analysis confidence.
func (s *Selection) AddEntry(e Entry) bool {
	return s.add(e)
}

func (s *Selection) add(e Entry) bool {
	if e.ID.IsZero() {
		return false
	}
	if _, ok := s.index[e.ID]; ok {
		return false
	}
	if e.Name == "" {
		e.Name = e.ID.String()
	}
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *Selection) Remove(id ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].ID] = j
	}
	return true
}

func (s *Selection) Clear() {
	s.entries = nil
	s.index = make(map[ID]int)
}

func (s *Selection) Size() int {
	return len(s.entries)
}

func (s *Selection) Has(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the selected ids in insertion order.
func (s *Selection) IDs() []ID {
	out := make([]ID, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.ID
	}
	return out
}

// Entries returns a copy of the selection in insertion order.
func (s *Selection) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
