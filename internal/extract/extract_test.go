package extract

import (
	"errors"
	"strings"
	"testing"
)

func texts(units []Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Text
	}
	return out
}

func TestExtract_SentencePerUnit(t *testing.T) {
	input := "First sentence here. Second sentence follows. Third one closes.\n"
	units, err := Extract(input, Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"First sentence here.", "Second sentence follows.", "Third one closes."}
	got := texts(units)
	if len(got) != len(want) {
		t.Fatalf("expected %d units, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unit %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_Idempotent(t *testing.T) {
	input := "Mr. Smith arrived. He left early today.\nA new line sentence."
	units, err := Extract(input, Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) == 0 {
		t.Fatal("expected at least one unit")
	}
	for _, u := range units {
		again, err := Extract(u.Text, Options{Mode: SentenceMode})
		if err != nil {
			t.Fatalf("re-extract %q: %v", u.Text, err)
		}
		if len(again) != 1 || again[0].Text != u.Text {
			t.Fatalf("re-extracting %q gave %v", u.Text, texts(again))
		}
	}
}

func TestExtract_AbbreviationDoesNotSplit(t *testing.T) {
	units, err := Extract("Mr. Smith arrived. He left.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "Mr. Smith arrived." || got[1] != "He left." {
		t.Fatalf("expected [Mr. Smith arrived.] [He left.], got %v", got)
	}
}

func TestExtract_InitialsDoNotSplit(t *testing.T) {
	units, err := Extract("J. K. Rowling wrote it. Done now.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "J. K. Rowling wrote it." {
		t.Fatalf("expected initials kept inside one unit, got %v", got)
	}
}

func TestExtract_DecimalNumberInsideSentence(t *testing.T) {
	units, err := Extract("Pi is roughly 3.14 of course. Next one.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "Pi is roughly 3.14 of course." {
		t.Fatalf("expected decimal kept inside one unit, got %v", got)
	}
}

func TestExtract_EnumerationMarkerDoesNotEnd(t *testing.T) {
	input := "He listed items\n1. First item continues fine. Done after that."
	units, err := Extract(input, Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 {
		t.Fatalf("expected 2 units, got %v", got)
	}
	if got[0] != "He listed items 1. First item continues fine." {
		t.Fatalf("expected list marker kept inside the unit, got %q", got[0])
	}
}

func TestExtract_StartingPhraseScopesExtraction(t *testing.T) {
	input := "PREFACE. Ignore this. BODY. Real sentence one. Real sentence two."
	units, err := Extract(input, Options{Mode: SentenceMode, StartPhrase: "BODY."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "Real sentence one." || got[1] != "Real sentence two." {
		t.Fatalf("expected only sentences after the phrase, got %v", got)
	}
}

func TestExtract_MissingPhraseSignalsError(t *testing.T) {
	input := "PREFACE. Ignore this. BODY. Real sentence one."
	units, err := Extract(input, Options{Mode: SentenceMode, StartPhrase: "NOPE"})
	if !errors.Is(err, ErrPhraseNotFound) {
		t.Fatalf("expected ErrPhraseNotFound, got %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected zero units, got %v", texts(units))
	}
}

func TestExtract_ParagraphMode(t *testing.T) {
	input := "\tThis is indented. Next line starts flush left.\n\n\tAnother paragraph here.\n"
	units, err := Extract(input, Options{Mode: ParagraphMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %v", got)
	}
	if got[0] != "This is indented. Next line starts flush left." {
		t.Fatalf("first paragraph wrong: %q", got[0])
	}
	if got[1] != "Another paragraph here." {
		t.Fatalf("second paragraph wrong: %q", got[1])
	}
}

func TestExtract_ParagraphClosedByNextIndent(t *testing.T) {
	input := "\tFirst paragraph without a closing period\n\tSecond one ends.\n"
	units, err := Extract(input, Options{Mode: ParagraphMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %v", got)
	}
	if got[0] != "First paragraph without a closing period" {
		t.Fatalf("expected the open paragraph closed by the next indent, got %q", got[0])
	}
}

func TestExtract_MidSentencePeriodNeedsCapitalOrBreak(t *testing.T) {
	// Lowercase after the period means the sentence keeps going.
	units, err := Extract("He stopped. then he went on. Next sentence.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "He stopped. then he went on." {
		t.Fatalf("expected lowercase continuation kept in unit, got %v", got)
	}
}

func TestExtract_PageReferenceDoesNotSplit(t *testing.T) {
	units, err := Extract("Voir t. II, p.\nXIV pour la suite. Elle conclut.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "Voir t. II, p. XIV pour la suite." {
		t.Fatalf("expected page and tome references kept inside one unit, got %v", got)
	}
}

func TestExtract_SentenceEndingInPageWordTerminates(t *testing.T) {
	units, err := Extract("La note renvoie à la p. Elle manque pourtant.", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 2 || got[0] != "La note renvoie à la p." {
		t.Fatalf("expected the bare p. to close the sentence, got %v", got)
	}
}

func TestExtract_UppercaseDenseLines(t *testing.T) {
	// Running heads in full caps exercise the start predicate on every rune.
	input := "RUNNING HEAD CHAPTER ONE.\nThe body resumes here. It continues on.\n"
	units, err := Extract(input, Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	want := []string{"RUNNING HEAD CHAPTER ONE.", "The body resumes here.", "It continues on."}
	if len(got) != len(want) {
		t.Fatalf("expected %d units, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unit %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func BenchmarkExtractUppercaseDense(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("folio RUNNING HEAD FULL OF UPPERCASE LETTERS WITHOUT ANY PERIOD\n")
	}
	sb.WriteString("A closing sentence at the end.\n")
	input := sb.String()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Extract(input, Options{Mode: SentenceMode}); err != nil {
			b.Fatal(err)
		}
	}
}

func TestExtract_UnterminatedStreamKeepsPartial(t *testing.T) {
	units, err := Extract("Unterminated final thought", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 1 || got[0] != "Unterminated final thought" {
		t.Fatalf("expected the partial unit kept, got %v", got)
	}
}

func TestExtract_WhitespaceNormalized(t *testing.T) {
	units, err := Extract("Broken  across\n   lines and\ttabs.\n", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 1 || got[0] != "Broken across lines and tabs." {
		t.Fatalf("expected collapsed whitespace, got %v", got)
	}
}

func TestExtract_NFCNormalization(t *testing.T) {
	// Decomposed e + combining acute must come out composed.
	units, err := Extract("Café est ouvert aujourd'hui.\n", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 || units[0].Text != "Café est ouvert aujourd'hui." {
		t.Fatalf("expected NFC-composed text, got %v", texts(units))
	}
}

func TestExtract_CustomNoiseDiscardsUnit(t *testing.T) {
	f, err := NewFilter(nil, []string{`^\d+\.?$`, `(?i)^chapter `})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	input := "Chapter One.\nReal content sentence.\n"
	units, err := Extract(input, Options{Mode: SentenceMode, Filter: f})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(units)
	if len(got) != 1 || got[0] != "Real content sentence." {
		t.Fatalf("expected the header discarded, got %v", got)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	units, err := Extract("", Options{Mode: SentenceMode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units, got %v", texts(units))
	}
}
