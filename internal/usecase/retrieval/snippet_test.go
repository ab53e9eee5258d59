package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractSnippet_ShortTextReturnedWhole(t *testing.T) {
	got := ExtractSnippet("tuition fees are listed below", []string{"fees"}, 2800)
	if got != "tuition fees are listed below" {
		t.Errorf("got %q", got)
	}
}

func TestExtractSnippet_NormalizesWhitespace(t *testing.T) {
	got := ExtractSnippet("  tuition\t\tfees \n\n listed  ", []string{"fees"}, 2800)
	if got != "tuition fees listed" {
		t.Errorf("got %q", got)
	}
}

func TestExtractSnippet_NoHitReturnsPrefix(t *testing.T) {
	text := strings.Repeat("a", 5000)
	got := ExtractSnippet(text, []string{"missing"}, 2800)
	if len(got) != 2800 {
		t.Fatalf("len = %d, want 2800", len(got))
	}
	if got != text[:2800] {
		t.Error("snippet is not the document prefix")
	}
}

func TestExtractSnippet_WindowPlacement(t *testing.T) {
	// Hit deep inside a long document: the window must start 35% of the
	// window size before the hit, exactly maxLen bytes long.
	text := strings.Repeat("a", 9000) + "deadline" + strings.Repeat("b", 3000)
	got := ExtractSnippet(text, []string{"deadline"}, 2800)

	if len(got) != 2800 {
		t.Fatalf("len = %d, want 2800", len(got))
	}
	wantStart := 9000 - 2800*35/100 // 8020
	if got != text[wantStart:wantStart+2800] {
		t.Errorf("window not anchored at %d", wantStart)
	}
	if idx := strings.Index(got, "deadline"); idx != 980 {
		t.Errorf("hit offset inside snippet = %d, want 980", idx)
	}
}

func TestExtractSnippet_HitNearStart(t *testing.T) {
	// Lead room would be negative; window clamps to the document start.
	text := "deadline " + strings.Repeat("x", 5000)
	got := ExtractSnippet(text, []string{"deadline"}, 2800)

	if !strings.HasPrefix(got, "deadline") {
		t.Errorf("snippet must start at document start, got %q...", got[:20])
	}
	if len(got) != 2800 {
		t.Errorf("len = %d, want 2800", len(got))
	}
}

func TestExtractSnippet_HitNearEnd(t *testing.T) {
	text := strings.Repeat("x", 5000) + " deadline"
	got := ExtractSnippet(text, []string{"deadline"}, 2800)

	if !strings.HasSuffix(got, "deadline") {
		t.Error("snippet must reach the document end")
	}
	if len(got) > 2800 {
		t.Errorf("len = %d, want <= 2800", len(got))
	}
}

func TestExtractSnippet_EarliestHitWins(t *testing.T) {
	text := strings.Repeat("a", 4000) + "fees" + strings.Repeat("b", 4000) + "hostel" + strings.Repeat("c", 4000)
	got := ExtractSnippet(text, []string{"hostel", "fees"}, 2800)

	if !strings.Contains(got, "fees") {
		t.Error("snippet must be anchored on the earliest hit")
	}
}

func TestExtractSnippet_UTF8Safe(t *testing.T) {
	// Multi-byte runes around every cut point must never be split.
	text := strings.Repeat("ü", 3000) + "deadline" + strings.Repeat("é", 3000)
	got := ExtractSnippet(text, []string{"deadline"}, 2800)

	if !utf8.ValidString(got) {
		t.Error("snippet contains a split rune")
	}
	if len(got) > 2800 {
		t.Errorf("len = %d, want <= 2800", len(got))
	}
}

func TestExtractSnippet_Empty(t *testing.T) {
	if got := ExtractSnippet("", []string{"x"}, 2800); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := ExtractSnippet("   \n\t ", []string{"x"}, 2800); got != "" {
		t.Errorf("whitespace-only: got %q, want empty", got)
	}
}
