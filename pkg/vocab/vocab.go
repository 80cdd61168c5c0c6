// Package vocab implements the custom open-addressed word→frequency table:
// it scans a token stream, self-reduces when it overflows its load factor,
// then sorts and re-indexes by descending frequency. This is deliberately
// not backed by a generic hash map — load-factor policy and iteration order
// during ReduceVocab are load-bearing for reproducing the reference.
package vocab

import (
	"io"
	"sort"
	"sync"
)

// HashSize is the number of slots in the open-addressed index table.
const HashSize = 30000000

// loadFactor is the fraction of HashSize that triggers a reduce pass.
const loadFactor = 0.7

// EndOfSentence is the sentinel word pinned at vocabulary index 0.
const EndOfSentence = "</s>"

// empty marks an unused slot in the index table.
const empty = int32(-1)

// Entry is a single vocabulary record: the word text, its occurrence count,
// and (after the Huffman coder runs) its bit-code and internal-node path.
type Entry struct {
	Word  string
	Count int64
	Code  []uint8
	Path  []int32
}

// TokenSource yields tokens one at a time, io.EOF-terminated. Satisfied
// structurally by *corpus.TokenStream.
type TokenSource interface {
	Next() (string, error)
}

// FrequencyTable is an externally supplied word→count multiset, used by
// "build from override" in place of a corpus scan.
type FrequencyTable map[string]int64

// Vocabulary is the ordered sequence of word entries plus the open-addressed
// index mapping each word to its entry.
type Vocabulary struct {
	mu sync.RWMutex

	entries   []*Entry
	index     []int32
	minReduce int64
	finalized bool
}

// New returns an empty vocabulary with the sentinel inserted at index 0.
func New() *Vocabulary {
	v := &Vocabulary{
		index:     make([]int32, HashSize),
		minReduce: 1,
	}
	for i := range v.index {
		v.index[i] = empty
	}
	v.entries = append(v.entries, &Entry{Word: EndOfSentence, Count: 0})
	v.index[hash(EndOfSentence)] = 0
	return v
}

// Lock/Unlock/RLock/RUnlock expose the vocabulary's mutex to collaborators
// (the Huffman coder writes Code/Path under an exclusive lock).
func (v *Vocabulary) Lock()    { v.mu.Lock() }
func (v *Vocabulary) Unlock()  { v.mu.Unlock() }
func (v *Vocabulary) RLock()   { v.mu.RLock() }
func (v *Vocabulary) RUnlock() { v.mu.RUnlock() }

// hash is the reference multiplicative hash: h = h*257 + byte over every
// byte, then a single h mod HashSize at the end. Using a native uint64
// accumulator keeps every intermediate value non-negative (overflow wraps),
// so the final modulo cannot be pulled negative by overflow.
func hash(word string) uint64 {
	var h uint64
	for i := 0; i < len(word); i++ {
		h = h*257 + uint64(word[i])
	}
	return h % HashSize
}

// find linear-probes the index table starting at the word's hash slot.
// It returns the slot and, if occupied by this exact word, the entry index.
func (v *Vocabulary) find(word string) (slot uint64, entryIdx int32, occupied bool) {
	slot = hash(word)
	for {
		e := v.index[slot]
		if e == empty {
			return slot, empty, false
		}
		if v.entries[e].Word == word {
			return slot, e, true
		}
		slot = (slot + 1) % HashSize
	}
}

// BuildFromCorpus scans the token stream once, incrementing counts for
// existing words and appending new entries for unseen ones. Reduce is
// invoked automatically whenever the table's load factor would be exceeded.
func (v *Vocabulary) BuildFromCorpus(tokens TokenSource) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for {
		tok, err := tokens.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		v.addTokenLocked(tok)
	}
}

func (v *Vocabulary) addTokenLocked(word string) {
	slot, idx, ok := v.find(word)
	if ok {
		v.entries[idx].Count++
		return
	}
	newIdx := int32(len(v.entries))
	v.entries = append(v.entries, &Entry{Word: word, Count: 1})
	v.index[slot] = newIdx

	if float64(len(v.entries)) > HashSize*loadFactor {
		v.reduceLocked()
	}
}

// BuildFromOverride accepts an externally supplied word→count multiset and
// inserts each entry verbatim, skipping corpus scanning entirely. An empty
// table produces an empty (sentinel-only) vocabulary.
func (v *Vocabulary) BuildFromOverride(freq FrequencyTable) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for word, count := range freq {
		if word == EndOfSentence {
			v.entries[0].Count += count
			continue
		}
		slot, idx, ok := v.find(word)
		if ok {
			v.entries[idx].Count += count
			continue
		}
		newIdx := int32(len(v.entries))
		v.entries = append(v.entries, &Entry{Word: word, Count: count})
		v.index[slot] = newIdx
	}
}

// Reduce drops every non-sentinel entry whose count is <= the current
// min_reduce threshold, compacts survivors, rebuilds the index table, and
// post-increments min_reduce.
func (v *Vocabulary) Reduce() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reduceLocked()
}

func (v *Vocabulary) reduceLocked() {
	survivors := v.entries[:1] // keep sentinel
	for _, e := range v.entries[1:] {
		if e.Count > v.minReduce {
			survivors = append(survivors, e)
		}
	}
	v.entries = survivors
	v.rebuildIndexLocked()
	v.minReduce++
}

func (v *Vocabulary) rebuildIndexLocked() {
	for i := range v.index {
		v.index[i] = empty
	}
	for i, e := range v.entries {
		slot := hash(e.Word)
		for v.index[slot] != empty {
			slot = (slot + 1) % HashSize
		}
		v.index[slot] = int32(i)
	}
}

// Finalize sorts entries in descending-count order (sentinel pinned at
// index 0), drops non-sentinel entries below minCount, and rebuilds the index
// table. It does not allocate per-entry Code/Path storage; huffman.Build
// allocates each entry's Code and Path when it assigns them.
func (v *Vocabulary) Finalize(minCount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rest := append([]*Entry{}, v.entries[1:]...)
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Count > rest[j].Count
	})

	kept := v.entries[:1]
	for _, e := range rest {
		if e.Count < minCount {
			continue
		}
		kept = append(kept, e)
	}
	v.entries = kept
	v.rebuildIndexLocked()
	v.finalized = true
}

// Len returns the number of vocabulary entries, including the sentinel.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Entry returns the entry at idx (0 is always the sentinel).
func (v *Vocabulary) Entry(idx int) *Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.entries[idx]
}

// Entries returns the full ordered entry slice. Callers must not mutate it
// except through the Huffman coder, which holds the vocabulary's lock.
func (v *Vocabulary) Entries() []*Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.entries
}

// IndexOf returns the index of word, or (-1, false) if it is not present.
func (v *Vocabulary) IndexOf(word string) (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, idx, ok := v.find(word)
	if !ok {
		return -1, false
	}
	return int(idx), true
}

// Finalized reports whether Finalize has run.
func (v *Vocabulary) Finalized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.finalized
}
