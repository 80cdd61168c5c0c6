package corpus

import (
	"strings"
	"sync"

	"github.com/sentencizer/sentencizer"
)

// segmenterEn is a package-level English sentence segmenter (thread-safe).
var segmenterEn = sentencizer.NewSegmenter("en")

// RawTextSource turns raw, possibly HTML-bearing text into a restartable
// SentenceSource: markup is stripped with CleanText, the result is segmented
// into sentences, and each sentence is whitespace-tokenized. Segmentation
// runs once, lazily, on first Open; every Open thereafter replays the same
// cached sentence slice, satisfying restartability without re-cleaning.
type RawTextSource struct {
	Text string

	once      sync.Once
	sentences [][]string
}

// NewRawTextSource wraps raw text as a restartable sentence source.
func NewRawTextSource(text string) *RawTextSource {
	return &RawTextSource{Text: text}
}

func (s *RawTextSource) Open() (SentenceReader, error) {
	s.once.Do(func() {
		cleaned := CleanText(s.Text)
		for _, sent := range segmenterEn.Segment(cleaned) {
			fields := strings.Fields(sent)
			if len(fields) == 0 {
				continue
			}
			s.sentences = append(s.sentences, fields)
		}
	})
	return (&SliceSource{Sentences: s.sentences}).Open()
}
