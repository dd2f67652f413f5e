package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "fullwidth", in: "\uff26\uff2f\uff32\uff2d\u3000\uff11\uff10\uff14\uff10", want: "FORM 1040"},
		{name: "zero width", in: "Busi\u200bness Li\ufeffcense", want: "Business License"},
		{name: "crlf and tabs", in: "Line one\t\t here\r\nLine two\r\n", want: "Line one here\nLine two"},
		{name: "blank lines collapse", in: "\n\nA\n\n\n\nB\n\n", want: "A\n\nB"},
		{name: "invalid utf8", in: "Tax\xffReturn", want: "TaxReturn"},
		{name: "case preserved", in: "Articles of Incorporation", want: "Articles of Incorporation"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
