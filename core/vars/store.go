// Package vars holds the interpreter's user-defined variables.
package vars

// Binding associates a variable name with its value.
type Binding struct {
	Name  string
	Value string
}

// Store is an ordered collection of bindings. Names are unique and matched
// exactly (case-sensitive). The zero value is an empty store ready to use.
type Store struct {
	bindings []Binding
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) index(name string) int {
	for i := range s.bindings {
		if s.bindings[i].Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the binding for name; ok is false if none exists.
func (s *Store) Lookup(name string) (binding Binding, ok bool) {
	if i := s.index(name); i >= 0 {
		return s.bindings[i], true
	}
	return Binding{}, false
}

// Upsert sets the value of name, adding a new binding if it doesn't exist.
func (s *Store) Upsert(name, value string) {
	if i := s.index(name); i >= 0 {
		s.bindings[i].Value = value
		return
	}
	s.bindings = append(s.bindings, Binding{Name: name, Value: value})
}

// SubstituteFirstMatch replaces the first token that names a binding with
// the binding's value and stops. It returns the index of the replaced token.
// Later tokens are never touched even if they are bound too.
func (s *Store) SubstituteFirstMatch(tokens []string) (replaced int, ok bool) {
	for i, tok := range tokens {
		if binding, found := s.Lookup(tok); found {
			tokens[i] = binding.Value
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of bindings.
func (s *Store) Len() int {
	return len(s.bindings)
}

// Bindings returns a copy of the bindings in insertion order.
func (s *Store) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}
