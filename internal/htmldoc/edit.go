package htmldoc

// Edge selects which tag of an element an anchor refers to.
type Edge int

const (
	// StartTag anchors on the element's start tag.
	StartTag Edge = iota
	// EndTag anchors on the element's explicit end tag.
	EndTag
)

// Placement says on which side of the anchor a payload goes.
type Placement int

const (
	Before Placement = iota
	After
)

func (p Placement) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// Anchor identifies a splice point: the start or end tag of the first element
// matching Match. When If is set the anchor only applies to pages that contain
// an element matching If.
type Anchor struct {
	Name  string
	Match Matcher
	Edge  Edge
	If    Matcher
}

// Locate returns the byte span of the anchor's tag. An EndTag anchor on an
// element without an explicit end tag is not found.
func (d *Document) Locate(a Anchor) (start, end int, ok bool) {
	if a.If != nil {
		if _, found := d.First(a.If); !found {
			return 0, 0, false
		}
	}
	for _, el := range d.elements {
		if !a.Match(el) {
			continue
		}
		if a.Edge == StartTag {
			return el.Start, el.End, true
		}
		if el.Closed() {
			return el.CloseStart, el.CloseEnd, true
		}
	}
	return 0, 0, false
}

// Insert splices payload next to the first anchor found. It returns the new
// markup and whether an anchor was found.
func (d *Document) Insert(anchor Anchor, placement Placement, payload string) (string, bool) {
	start, end, ok := d.Locate(anchor)
	if !ok {
		return d.src, false
	}
	at := start
	if placement == After {
		at = end
	}
	return d.src[:at] + payload + d.src[at:], true
}

// ReplaceStartTag swaps el's start tag token for replacement.
func (d *Document) ReplaceStartTag(el *Element, replacement string) string {
	return d.src[:el.Start] + replacement + d.src[el.End:]
}
