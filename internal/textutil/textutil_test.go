package textutil

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "tuition fees", "tuition fees"},
		{"runs", "tuition \t\n  fees\r\n2024", "tuition fees 2024"},
		{"surrounding", "  admission  ", "admission"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.in); got != tt.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"tags",
			"<html><body><h1>Admissions</h1><p>Apply by March</p></body></html>",
			"Admissions Apply by March",
		},
		{
			"script and style removed",
			"<script>var x = 1;</script><style>p{color:red}</style><p>Fees</p>",
			"Fees",
		},
		{
			"script spanning lines",
			"<script type=\"text/javascript\">\nalert(1)\n</script>Deadline",
			"Deadline",
		},
		{
			"entities",
			"Arts &amp; Sciences &nbsp; &lt;2024&gt; &quot;merit&quot;",
			`Arts & Sciences <2024> "merit"`,
		},
		{"no markup", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
