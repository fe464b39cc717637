package sanitize

import "testing"

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "phone number already exists", "phone number already exists"},
		{"ansi color codes stripped", "\x1b[31mvalidation failed\x1b[0m", "validation failed"},
		{"control chars become spaces", "line one\nline two\ttabbed", "line one line two tabbed"},
		{"whitespace runs collapsed", "  too   many    spaces  ", "too many spaces"},
		{"mixed noise", "\x1b[1;33mwarn:\x1b[0m\r\nbudget\x00invalid", "warn: budget invalid"},
		{"empty", "", ""},
		{"only noise", "\x1b[0m\r\n\t", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorMessage(tc.in); got != tc.want {
				t.Fatalf("ErrorMessage(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"tags removed", "<b>urgent</b> lead", "urgent lead"},
		{"encoded tags caught", "&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"plain passthrough", "no markup here", "no markup here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripHTML(tc.in); got != tc.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
