package htmldoc

import "strings"

// Matcher selects elements.
type Matcher func(*Element) bool

// Tag matches elements by (lower-case) tag name.
func Tag(name string) Matcher {
	name = strings.ToLower(name)
	return func(e *Element) bool { return e.Tag == name }
}

// Class matches elements whose class attribute lists class.
func Class(class string) Matcher {
	return func(e *Element) bool { return e.HasClass(class) }
}

// AttrEquals matches elements whose attribute key equals val (case-insensitive).
func AttrEquals(key, val string) Matcher {
	return func(e *Element) bool {
		v, ok := e.Attr(key)
		return ok && strings.EqualFold(strings.TrimSpace(v), val)
	}
}

// AttrHasToken matches elements whose space-separated attribute lists token,
// as with rel="stylesheet" or class lists.
func AttrHasToken(key, token string) Matcher {
	return func(e *Element) bool {
		v, ok := e.Attr(key)
		return ok && hasToken(v, token)
	}
}

// AttrPrefix matches elements whose attribute value starts with prefix.
func AttrPrefix(key, prefix string) Matcher {
	return func(e *Element) bool {
		v, ok := e.Attr(key)
		return ok && strings.HasPrefix(strings.TrimSpace(v), prefix)
	}
}

// And matches when every matcher matches.
func And(ms ...Matcher) Matcher {
	return func(e *Element) bool {
		for _, m := range ms {
			if !m(e) {
				return false
			}
		}
		return true
	}
}
