package hint

import "strings"

// Subscripted is a hint of the form Origin[Args...], e.g. Base[int, T].
type Subscripted struct {
	Origin Hint
	Args   []Hint
}

func (s *Subscripted) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return s.Origin.String() + "[" + strings.Join(parts, ", ") + "]"
}

func (s *Subscripted) hintNode() {}

// Sub builds a subscripted hint.
func Sub(origin Hint, args ...Hint) *Subscripted {
	return &Subscripted{Origin: origin, Args: args}
}
