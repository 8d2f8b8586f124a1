package wordrule

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"camera clip", "A_0001C001_240715.mxf", []string{"A", "_", "0001", "C", "001", "_", "240715", ".mxf"}},
		{"digit run before extension", "clip_01.mp4", []string{"clip", "_", "01", ".mp", "4"}},
		{"camelCase", "myHolidayVideo2024.mov", []string{"my", "Holiday", "Video", "2024", ".mov"}},
		{"upper run stays together", "HTTPServer.log", []string{"HTTPServer.log"}},
		{"whitespace and hyphen", "my file-name", []string{"my", " ", "file", "-", "name"}},
		{"consecutive separators", "a__b", []string{"a", "_", "_", "b"}},
		{"letters digits letters", "ab12cd", []string{"ab", "12", "cd"}},
		{"non-latin then digits", "日本語123", []string{"日本語", "123"}},
		{"accented letter is other", "Café_01", []string{"Café", "_", "01"}},
		{"tab separator", "a\tb", []string{"a", "\t", "b"}},
		{"only separators", "_-_", []string{"_", "-", "_"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Texts(Tokenize(tt.in))
			if !stringsEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tokens := Tokenize("a_b c-d")
	wantSep := []bool{false, true, false, true, false, true, false}
	if len(tokens) != len(wantSep) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantSep))
	}
	for i, tok := range tokens {
		if tok.IsSeparator() != wantSep[i] {
			t.Errorf("token %d (%q) IsSeparator = %v, want %v", i, tok.Text, tok.IsSeparator(), wantSep[i])
		}
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"A_0001C001_240715.mxf",
		"shot_0012_take3.mov",
		"  leading and trailing  ",
		"Mixed-CASE_name v2 (final).tar.gz",
		"日本語_ファイル-名 01.jpg",
		"\xff\xfeab12\x80",
		"emoji 🎬 clip_9.mp4",
		"___",
		"123abcDEF456",
	}
	for _, in := range inputs {
		got := strings.Join(Texts(Tokenize(in)), "")
		if got != in {
			t.Errorf("round trip of %q gave %q", in, got)
		}
	}
}

func TestTokenize_NoEmptyTokens(t *testing.T) {
	for _, in := range []string{"a1b2c3", "__x__", "A_0001C001_240715.mxf", " "} {
		for i, tok := range Tokenize(in) {
			if tok.Text == "" {
				t.Errorf("Tokenize(%q) token %d is empty", in, i)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want WordClass
	}{
		{"_", ClassSeparator},
		{"-", ClassSeparator},
		{" ", ClassSeparator},
		{"__", ClassOther},
		{"0012", ClassNumeric},
		{"take", ClassAlpha},
		{"TAKE", ClassAlpha},
		{"take3", ClassAlphaNumericMixed},
		{"3D", ClassAlphaNumericMixed},
		{".mxf", ClassOther},
		{"é", ClassOther},
		{"日本語", ClassOther},
		{"", ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if Classify(tt.in) != Classify(tt.in) {
				t.Errorf("Classify(%q) is not stable", tt.in)
			}
		})
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
