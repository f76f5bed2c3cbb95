package task

// Priority is a task priority letter 'A'..'Z', or NoPriority.
type Priority byte

// NoPriority marks a task without a priority.
const NoPriority Priority = 0

// ParsePriority parses a single letter priority. Lowercase letters are
// accepted; anything else yields NoPriority.
func ParsePriority(s string) Priority {
	if len(s) != 1 {
		return NoPriority
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return NoPriority
	}
	return Priority(c)
}

// Valid reports whether p is a letter priority.
func (p Priority) Valid() bool {
	return p >= 'A' && p <= 'Z'
}

// Code returns the priority letter, or "-" when there is none.
func (p Priority) Code() string {
	if !p.Valid() {
		return "-"
	}
	return string(rune(p))
}

// Rank orders priorities with A first and no priority after Z.
func (p Priority) Rank() int {
	if !p.Valid() {
		return 'Z' + 1
	}
	return int(p)
}

func (p Priority) String() string {
	return p.Code()
}
