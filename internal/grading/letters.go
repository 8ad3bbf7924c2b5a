package grading

import "fmt"

// maxLabels is the number of single-letter option labels, A through Z.
const maxLabels = 26

// InvalidSelectionError reports a selected option index with no label.
type InvalidSelectionError struct {
	Index   int
	Options int
}

func (e *InvalidSelectionError) Error() string {
	if e.Options > 0 {
		return fmt.Sprintf("selection %d out of range [0,%d)", e.Index, e.Options)
	}
	return fmt.Sprintf("selection %d has no option label", e.Index)
}

// LetterAt returns the label for the option at position i: 0 is "A", 1 is "B".
func LetterAt(i int) (string, error) {
	if i < 0 || i >= maxLabels {
		return "", &InvalidSelectionError{Index: i}
	}
	return string(rune('A' + i)), nil
}

// IndexOf is the inverse of LetterAt. It returns -1 for anything that is
// not a single label letter.
func IndexOf(label string) int {
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
		return -1
	}
	return int(label[0] - 'A')
}

// OptionLabel renders an option as "A. text".
func OptionLabel(i int, text string) string {
	l, err := LetterAt(i)
	if err != nil {
		return text
	}
	return l + ". " + text
}
