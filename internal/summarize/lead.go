package summarize

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lead is an offline extractive summarizer: it returns the opening sentences
// of the text, up to MaxLength words. Output is always deterministic.
type Lead struct{}

// NewLead returns the offline summarizer.
func NewLead() *Lead { return &Lead{} }

// Summarize takes whole sentences while the running word count stays within
// opts.MaxLength. A first sentence longer than that is cut at MaxLength
// words. MinLength is not enforced: short inputs yield short summaries.
func (l *Lead) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &SummarizationError{Backend: "lead", Err: err}
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "", &SummarizationError{Backend: "lead", Err: errors.New("no sentences in input")}
	}

	maxWords := opts.MaxLength
	if maxWords <= 0 {
		maxWords = DefaultOptions().MaxLength
	}

	var picked []string
	words := 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if words+n > maxWords {
			if len(picked) == 0 {
				picked = append(picked, strings.Join(strings.Fields(s)[:maxWords], " "))
			}
			break
		}
		picked = append(picked, s)
		words += n
	}
	return strings.Join(picked, " "), nil
}

// splitSentences breaks text after '.', '!' or '?' and skips the whitespace
// that follows. A trailing fragment without terminator is kept.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	start := 0
	for idx, r := range text {
		if idx < start {
			continue
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		end := idx + utf8.RuneLen(r)
		if seg := strings.TrimSpace(text[start:end]); seg != "" {
			sentences = append(sentences, seg)
		}
		start = end
		for start < len(text) {
			next, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(next) {
				break
			}
			start += size
		}
	}
	if start < len(text) {
		if seg := strings.TrimSpace(text[start:]); seg != "" {
			sentences = append(sentences, seg)
		}
	}
	return sentences
}
