package emoji

import (
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "escaped heart bytes",
			input: `\u00e2\u009d\u00a4`,
			want:  "❤",
		},
		{
			name:  "json-parsed heart bytes",
			input: "\u00e2\u009d\u00a4",
			want:  "❤",
		},
		{
			name:  "mixed case escapes",
			input: `\u00E2\u009D\u00a4 ok`,
			want:  "❤ ok",
		},
		{
			name:  "grinning face four bytes",
			input: "\u00f0\u009f\u0098\u0080",
			want:  "😀",
		},
		{
			name:  "plain ascii untouched",
			input: "see you at 8",
			want:  "see you at 8",
		},
		{
			name:  "malformed byte sequence returns original",
			input: `\u00e2\u0028`,
			want:  `\u00e2\u0028`,
		},
		{
			name:  "lone latin-1 byte returns original",
			input: "café",
			want:  "café",
		},
		{
			name:  "already decoded text returns original",
			input: "love it ❤",
			want:  "love it ❤",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.input); got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsEmoji(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'😀', true},
		{'🌍', true},
		{'🚀', true},
		{'🇺', true},
		{'☀', true},
		{'❤', true},
		{'a', false},
		{'é', false},
		{0xFE0F, false},
	}

	for _, tt := range tests {
		if got := IsEmoji(tt.r); got != tt.want {
			t.Errorf("IsEmoji(%U) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	got := Extract("lol 😂😂 see you ❤️ at 🚀")
	want := []string{"😂", "😂", "❤", "🚀"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}

	if got := Extract("no emoji here"); len(got) != 0 {
		t.Errorf("Extract() on plain text = %q, want empty", got)
	}
}

func TestExtractEscaped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "escaped heart",
			raw:  `thanks \u00e2\u009d\u00a4`,
			want: []string{"❤"},
		},
		{
			name: "escaped non-emoji triple",
			raw:  `\u00e2\u0082\u00ac`,
			want: nil,
		},
		{
			name: "truncated four byte emoji",
			raw:  `\u00f0\u009f\u0098`,
			want: nil,
		},
		{
			name: "no escapes",
			raw:  "❤",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEscaped(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractEscaped(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
