package mustache

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`a & b`, "a &amp; b"},
		{`<script src="x">`, "&lt;script src=&quot;x&quot;&gt;"},
		{"it's", "it's"},
		{"&amp;", "&amp;amp;"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
