package corpus

import "io"

// EndOfSentence is the literal sentinel token yielded once per sentence
// boundary by TokenStream.
const EndOfSentence = "</s>"

// maxWordBytes is the byte length words are truncated to before they reach
// the vocabulary builder or trainer.
const maxWordBytes = 100

// TokenStream is the lazy word sequence of a SentenceSource: every non-empty
// word of a sentence, in order, truncated to 100 bytes, followed by a
// literal "</s>" once per sentence boundary.
type TokenStream struct {
	reader  SentenceReader
	pending []string
	pos     int
	done    bool
}

// NewTokenStream adapts a SentenceReader into a flat token sequence.
func NewTokenStream(reader SentenceReader) *TokenStream {
	return &TokenStream{reader: reader}
}

// Next returns the next token, or io.EOF once the underlying sentence reader
// is exhausted. Errors from the underlying reader propagate unchanged (the
// reader itself is responsible for wrapping them with an IO kind).
func (t *TokenStream) Next() (string, error) {
	for {
		if t.pos < len(t.pending) {
			w := t.pending[t.pos]
			t.pos++
			if w == "" {
				continue
			}
			return truncate(w), nil
		}
		if t.done {
			return "", io.EOF
		}
		sentence, err := t.reader.Next()
		if err == io.EOF {
			t.done = true
			t.pending = nil
			t.pos = 0
			continue
		}
		if err != nil {
			return "", err
		}
		t.pos = 0
		// Emit every word of this sentence, then the sentence-end sentinel.
		t.pending = append(append([]string{}, sentence...), EndOfSentence)
	}
}

// Close releases the underlying sentence reader.
func (t *TokenStream) Close() error {
	return t.reader.Close()
}

func truncate(w string) string {
	if len(w) <= maxWordBytes {
		return w
	}
	return w[:maxWordBytes]
}
