package whisper

import (
	"strings"
	"unicode"
)

// joinContinuations merges a token Timing onto the preceding one when its
// text has no leading whitespace/punctuation of its own — whisper.cpp emits
// word-piece continuations this way, and treating them as separate Timings
// would split words at their sub-token boundaries.
func joinContinuations(tokens []Timing) []Timing {
	var joined []Timing
	for _, tok := range tokens {
		if len(joined) > 0 && isContinuation(tok.Text) {
			prev := &joined[len(joined)-1]
			prev.Text += tok.Text
			if tok.T1Ms > prev.T1Ms {
				prev.T1Ms = tok.T1Ms
			}
			continue
		}
		joined = append(joined, tok)
	}
	return joined
}

// isContinuation reports whether text is a word-piece continuation: it has
// content and its first rune is alphanumeric (no leading whitespace or
// punctuation, which would mark the start of a new word).
func isContinuation(text string) bool {
	r := firstRune(text)
	return r != 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// collectSentences groups joined Timings into sentences, splitting after any
// Timing whose text ends with terminal punctuation (".", "!", "?"). A
// bracketed non-speech annotation (e.g. "[BLANK_AUDIO]") always forms its
// own single-Timing sentence, since whisper.cpp emits these as a complete
// segment rather than text that shares a sentence with neighboring speech.
func collectSentences(timings []Timing) []Timing {
	var sentences []Timing
	var current *Timing

	flush := func() {
		if current != nil {
			sentences = append(sentences, *current)
			current = nil
		}
	}

	for _, tm := range timings {
		if strings.HasPrefix(strings.TrimSpace(tm.Text), "[") {
			flush()
			sentences = append(sentences, tm)
			continue
		}
		if current == nil {
			t := tm
			current = &t
		} else {
			current.Text += tm.Text
			current.T1Ms = tm.T1Ms
		}
		if endsSentence(tm.Text) {
			flush()
		}
	}
	flush()

	return sentences
}

func endsSentence(text string) bool {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return false
	}
	last := rune(text[len(text)-1])
	return last == '.' || last == '!' || last == '?'
}

// filterMeta drops sentences whose content starts with "[" — these are
// whisper.cpp's bracketed non-speech annotations (e.g. "[BLANK_AUDIO]",
// "[MUSIC]"), not recognized speech.
func filterMeta(sentences []Timing) []Timing {
	var kept []Timing
	for _, s := range sentences {
		if strings.HasPrefix(strings.TrimSpace(s.Text), "[") {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// reduceToOne concatenates the remaining sentences into a single Timing
// spanning their combined bounds. Returns (zero Timing, false) when
// sentences is empty — the caller must not mistake that for a sentence
// that happens to transcribe to empty text.
func reduceToOne(sentences []Timing) (Timing, bool) {
	if len(sentences) == 0 {
		return Timing{}, false
	}

	result := Timing{T0Ms: sentences[0].T0Ms, T1Ms: sentences[0].T1Ms}
	var b strings.Builder
	for _, s := range sentences {
		b.WriteString(s.Text)
		if s.T0Ms < result.T0Ms {
			result.T0Ms = s.T0Ms
		}
		if s.T1Ms > result.T1Ms {
			result.T1Ms = s.T1Ms
		}
	}
	result.Text = b.String()
	return result, true
}

// PostProcess runs the full pipeline over raw per-token Timings: join
// continuations, collect sentences, filter meta sentences, reduce to one.
// The second return value is false when no sentence survived filtering,
// which callers must surface as "no content" rather than an empty string.
func PostProcess(tokens []Timing) (Timing, bool) {
	joined := joinContinuations(tokens)
	sentences := collectSentences(joined)
	kept := filterMeta(sentences)
	return reduceToOne(kept)
}
