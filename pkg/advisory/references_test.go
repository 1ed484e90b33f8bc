package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReferences(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary []string
		want      string
	}{
		{
			name:      "primary and secondary references",
			primary:   "https://example.com",
			secondary: []string{"www.foo.net", "www.bar.net"},
			want:      "URL:https://example.com, URL:www.foo.net, URL:www.bar.net",
		},
		{
			name:    "primary only",
			primary: "https://example.com",
			want:    "URL:https://example.com",
		},
		{
			name:      "duplicates are kept",
			primary:   "a",
			secondary: []string{"a", "a"},
			want:      "URL:a, URL:a, URL:a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReferences(tt.primary, tt.secondary))
		})
	}
}

func TestSecondaryReferences(t *testing.T) {
	r := NewRecord()
	r.Set(XrefsField, "['www.foo.net', 'www.bar.net']")

	refs, err := SecondaryReferences(r)
	assert.NoError(t, err)
	assert.Equal(t, []string{"www.foo.net", "www.bar.net"}, refs)

	r.Set(XrefsField, "www.foo.net")
	_, err = SecondaryReferences(r)
	assert.ErrorIs(t, err, ErrMalformedReferences)
}
