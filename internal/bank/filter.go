package bank

// Systemed is any item carrying a system tag.
type Systemed interface {
	SystemTag() System
}

// FilterBySystem returns the items whose system equals selector exactly.
// SelectorAll returns every item. The result is always a new slice in
// source order; items is never modified.
func FilterBySystem[T Systemed](items []T, selector string) []T {
	out := make([]T, 0, len(items))
	if selector == SelectorAll {
		return append(out, items...)
	}
	for _, it := range items {
		if string(it.SystemTag()) == selector {
			out = append(out, it)
		}
	}
	return out
}

// ValidSelector reports whether s is one of Selectors().
func ValidSelector(s string) bool {
	for _, v := range Selectors() {
		if v == s {
			return true
		}
	}
	return false
}
