package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   Metadata
	}{
		{
			name: "all fields present",
			markup: `<html><head><title> Subnetting &amp; VLSM </title>
<meta name="description" content="Learn to subnet &quot;fast&quot;."></head>
<body><h1>Subnetting</h1></body></html>`,
			want: Metadata{Title: "Subnetting & VLSM", Description: `Learn to subnet "fast".`, Heading: "Subnetting"},
		},
		{
			name:   "missing title",
			markup: `<html><head><meta name="description" content="d"></head><body><h1>H</h1></body></html>`,
			want:   Metadata{Title: DefaultTitle, Description: "d", Heading: "H"},
		},
		{
			name:   "nothing at all",
			markup: `<p>just text</p>`,
			want:   Metadata{Title: DefaultTitle, Description: DefaultDescription, Heading: DefaultHeading},
		},
		{
			name:   "empty tags",
			markup: `<title>   </title><meta name="description" content=""><h1><img src="x.png"></h1>`,
			want:   Metadata{Title: DefaultTitle, Description: DefaultDescription, Heading: DefaultHeading},
		},
		{
			name:   "heading with inline markup",
			markup: `<h1 class="t">Ports <code>22</code> and <code>443</code></h1>`,
			want:   Metadata{Title: DefaultTitle, Description: DefaultDescription, Heading: "Ports 22 and 443"},
		},
		{
			name:   "unterminated title",
			markup: `<head><title>Broken`,
			want:   Metadata{Title: "Broken", Description: DefaultDescription, Heading: DefaultHeading},
		},
		{
			name:   "description attribute order and case",
			markup: `<meta content="first" NAME="Description"><meta name="description" content="second">`,
			want:   Metadata{Title: DefaultTitle, Description: "first", Heading: DefaultHeading},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.markup))
		})
	}
}
