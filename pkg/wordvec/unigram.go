package wordvec

import (
	"math"

	"github.com/vecforge/vecforge/pkg/vocab"
)

// UnigramTableSize is the number of cells in the precomputed negative
// sampling draw table.
const UnigramTableSize = 100_000_000

// unigramPower is the exponent counts are raised to before building the
// sampling distribution (contrasting true targets against noise words drawn
// closer to uniform than their raw frequency).
const unigramPower = 0.75

// BuildUnigramTable samples vocabulary indices proportionally to
// count^0.75 into a flat array of length 1e8. Built once, read-only
// thereafter, and used by negative sampling as an O(1) draw from the noise
// distribution.
func BuildUnigramTable(entries []*vocab.Entry) []int32 {
	table := make([]int32, UnigramTableSize)
	if len(entries) == 0 {
		return table
	}

	var trainWordsPow float64
	for _, e := range entries {
		trainWordsPow += math.Pow(float64(e.Count), unigramPower)
	}
	if trainWordsPow == 0 {
		return table
	}

	i := 0
	d1 := math.Pow(float64(entries[i].Count), unigramPower) / trainWordsPow
	for a := 0; a < UnigramTableSize; a++ {
		table[a] = int32(i)
		if float64(a)/float64(UnigramTableSize) > d1 {
			i++
			if i >= len(entries) {
				i = len(entries) - 1
			}
			d1 += math.Pow(float64(entries[i].Count), unigramPower) / trainWordsPow
		}
	}
	return table
}
