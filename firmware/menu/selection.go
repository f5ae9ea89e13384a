package menu

// Selection is an item index kept inside [0, n).
type Selection struct {
	idx int
	n   int
}

func NewSelection(n int) Selection { return Selection{n: n} }

func (s Selection) Index() int { return s.idx }
func (s Selection) Len() int   { return s.n }

// Set moves to i, clamped to the valid range.
func (s *Selection) Set(i int) {
	switch {
	case s.n <= 0 || i < 0:
		i = 0
	case i >= s.n:
		i = s.n - 1
	}
	s.idx = i
}

// Move shifts by delta, clamped.
func (s *Selection) Move(delta int) { s.Set(s.idx + delta) }
