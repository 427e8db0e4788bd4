package document

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeMarkdownExample(t *testing.T) {
	got := Sanitize("**bold** and *em* and # Heading and [text](url)")
	want := "bold and em and Heading and text"
	if got != want {
		t.Fatalf("Sanitize() = %q, want %q", got, want)
	}
}

func TestSanitizeCases(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"plain", "  Zakat on Digital Assets  ", "Zakat on Digital Assets"},
		{"control chars", "a\x00b\x07c\x1fd\x7fe", "abcde"},
		{"keeps tab and newline", "a\tb\nc\r\nd", "a\tb\nc\r\nd"},
		{"zero width", "al\u200bfa\u200c\u200dtiha\ufeff", "alfatiha"},
		{"heading at line start", "## Intro\n### Part", "Intro\nPart"},
		{"six hashes", "###### Deep", "Deep"},
		{"seven hashes kept", "####### Deep", "####### Deep"},
		{"hash without space", "#hashtag", "#hashtag"},
		{"nested emphasis", "***x***", "x"},
		{"bold with inner italic", "**a *b* c**", "a b c"},
		{"inline code", "use `zakat()` here", "use zakat() here"},
		{"fence", "```\ncode\n```", "code"},
		{"link empty label", "see [](http://x) now", "see  now"},
		{"link inside bold", "**[Quran](https://quran.com)**", "Quran"},
		{"stacked headings", "# # # x", "x"},
		{"arabic", "  **الزكاة**  ", "الزكاة"},
		{"nested links", "[[x](y)](z)", "x"},
		{"stars around link close", "*[a]*(u)", "a"},
		{"lone star kept", "2 * 3 = 6", "2 * 3 = 6"},
		{"unpaired star kept", "2*3", "2*3"},
		{"citation kept", "[1] Sahih Muslim", "[1] Sahih Muslim"},
		{"closer without opener", "x](y)", "x](y)"},
		{"url does not span lines", "[a](b\nc)", "[a](b\nc)"},
		{"heading after link", "[# ](u)x", "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"**a** *b* `c` [d](e) # f",
		"*****",
		"[[x](y)](z)",
		"** **",
		"# \n#\t# x",
		"a\u200b*b\x00*",
		"[a][(b](u))",
		"[a][](u)(v)",
		"*x [a]*(u)",
		"\u00a0# x",
		"# \u00a0# x",
		"**a** *b ** c*",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitizeDeepNestingIsLinear(t *testing.T) {
	const depth = 20000
	in := strings.Repeat("[", depth) + "x" + strings.Repeat("](u)", depth)
	if len(in) < 100_000 {
		t.Fatalf("input too small: %d bytes", len(in))
	}

	start := time.Now()
	got := Sanitize(in)
	elapsed := time.Since(start)

	if got != "x" {
		t.Fatalf("Sanitize() = %q, want %q", got, "x")
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("Sanitize took %v on %d bytes", elapsed, len(in))
	}
}

func FuzzSanitize(f *testing.F) {
	for _, seed := range []string{
		"",
		"**bold** and *em* and # Heading and [text](url)",
		"\x00\x1f\x7f\u200b\ufeff",
		"``` code ```",
		"### **[a](b)**",
		"[a][(b](u))",
		"*x [a]*(u) # y",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Sanitize(s)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
		if strings.IndexFunc(once, IsStripped) >= 0 {
			t.Fatalf("stripped character survived in %q", once)
		}
	})
}
