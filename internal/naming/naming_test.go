package naming

import (
	"sort"
	"strings"
	"testing"

	"github.com/backmassage/renword/internal/probe"
)

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver(false)

	out1 := cr.Resolve("/in/a.mov", "/in/Trip - 01.mov")
	if out1 != "/in/Trip - 01.mov" {
		t.Errorf("first claim: got %q", out1)
	}

	out2 := cr.Resolve("/in/b.mov", "/in/Trip - 01.mov")
	want2 := "/in/Trip - 01 - dup1.mov"
	if out2 != want2 {
		t.Errorf("dup1: got %q, want %q", out2, want2)
	}

	out3 := cr.Resolve("/in/c.mov", "/in/Trip - 01.mov")
	want3 := "/in/Trip - 01 - dup2.mov"
	if out3 != want3 {
		t.Errorf("dup2: got %q, want %q", out3, want3)
	}

	// Same source claiming same target is idempotent.
	out1b := cr.Resolve("/in/a.mov", "/in/Trip - 01.mov")
	if out1b != "/in/Trip - 01.mov" {
		t.Errorf("re-claim: got %q", out1b)
	}
}

func TestCollisionResolver_FoldCase(t *testing.T) {
	cr := NewCollisionResolver(true)
	if _, ok := cr.Claim("/in/a", "/in/Photo.JPG"); !ok {
		t.Fatal("first claim failed")
	}
	owner, ok := cr.Claim("/in/b", "/in/photo.jpg")
	if ok || owner != "/in/a" {
		t.Errorf("Claim = %q, %v; want owner /in/a, false", owner, ok)
	}
	if got := cr.Resolve("/in/b", "/in/photo.jpg"); got != "/in/photo - dup1.jpg" {
		t.Errorf("Resolve = %q", got)
	}

	exact := NewCollisionResolver(false)
	exact.Claim("/in/a", "/in/Photo.JPG")
	if _, ok := exact.Claim("/in/b", "/in/photo.jpg"); !ok {
		t.Error("case-sensitive resolver treated different case as collision")
	}
}

func TestCollisionResolver_SkipsTaken(t *testing.T) {
	cr := NewCollisionResolver(false)
	cr.Taken = func(p string) bool { return p == "/d/x - dup1.txt" }
	cr.Resolve("/d/1", "/d/x.txt")
	if got := cr.Resolve("/d/2", "/d/x.txt"); got != "/d/x - dup2.txt" {
		t.Errorf("Resolve = %q, want dup2 (dup1 exists on disk)", got)
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"clip_2.mov", "clip_10.mov", true},
		{"clip_10.mov", "clip_2.mov", false},
		{"a", "B", true},
		{"1", "01", true},
		{"01", "1", false},
		{"x", "x1", true},
		{"same", "same", false},
		{"A", "a", true},
		{"v9.9", "v10.0", true},
	}
	for _, tt := range tests {
		if got := NaturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSortNatural(t *testing.T) {
	names := []string{"ep10.mkv", "ep1.mkv", "Ep2.mkv", "ep002.mkv", "bonus.mkv"}
	SortNatural(names)
	want := "bonus.mkv ep1.mkv Ep2.mkv ep002.mkv ep10.mkv"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("SortNatural = %q, want %q", got, want)
	}
	if !sort.SliceIsSorted(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) }) {
		t.Error("result not sorted by NaturalLess")
	}
}

func TestInvalidNameReason(t *testing.T) {
	tests := []struct {
		name    string
		invalid bool
	}{
		{"clip_01.mp4", false},
		{"日本語 ファイル.jpg", false},
		{".hidden", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"what?.txt", true},
		{"tab\there", true},
		{"trailing.", true},
		{"trailing ", true},
		{"CON", true},
		{"nul.txt", true},
		{"console.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InvalidNameReason(tt.name)
			if (got != "") != tt.invalid {
				t.Errorf("InvalidNameReason(%q) = %q, want invalid=%v", tt.name, got, tt.invalid)
			}
		})
	}
}

func TestExpandPlaceholders(t *testing.T) {
	m := &probe.Metadata{Width: 1920, Height: 1080, Duration: 61.9, Codec: "h264", IsVideo: true}
	tests := []struct {
		name  string
		value string
		meta  *probe.Metadata
		want  string
	}{
		{"no placeholders", "plain", m, "plain"},
		{"resolution", "{res}_", m, "1920x1080_"},
		{"all", "{width}-{height}-{duration}s-{codec}", m, "1920-1080-61s-h264"},
		{"unknown becomes empty", "a{bitrate}b", m, "ab"},
		{"nil metadata", "x{res}", nil, "x"},
		{"missing values", "{res}{duration}", &probe.Metadata{Codec: "png"}, ""},
		{"not a placeholder", "{Res} {1}", m, "{Res} {1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPlaceholders(tt.value, tt.meta); got != tt.want {
				t.Errorf("ExpandPlaceholders(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
