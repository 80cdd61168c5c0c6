// Package huffman builds a binary Huffman tree over a finalized vocabulary's
// word counts and assigns each word a bit-code and an internal-node path
// used to address hierarchical-softmax output weights.
package huffman

import (
	"fmt"

	"github.com/vecforge/vecforge/pkg/vocab"
)

// MaxCodeLength bounds the depth of any Huffman code. Degenerate inputs that
// would exceed it are rejected rather than silently truncated.
const MaxCodeLength = 40

// hugeCount stands in for the reference's 1e15 sentinel used to seed
// internal-node counts before they are ever merged into.
const hugeCount int64 = 1_000_000_000_000_000

// Build assigns Code and Path to every entry of a finalized vocabulary,
// using the reference's array-based cursor merge algorithm: two parallel
// cursors, pos1 descending over leaves and pos2 ascending over internal
// nodes, always pick the two smallest-count candidates with pos1-first
// tie-breaking.
func Build(v *vocab.Vocabulary) error {
	entries := v.Entries()
	v.Lock()
	defer v.Unlock()
	n := len(entries)
	if n <= 1 {
		return nil
	}

	size := 2*n - 1
	count := make([]int64, size)
	binary := make([]uint8, size)
	parent := make([]int32, size)

	for i := 0; i < n; i++ {
		count[i] = entries[i].Count
	}
	for i := n; i < size; i++ {
		count[i] = hugeCount
	}

	pos1 := n - 1
	pos2 := n

	pickSmallest := func() int {
		if pos1 >= 0 && count[pos1] < count[pos2] {
			i := pos1
			pos1--
			return i
		}
		i := pos2
		pos2++
		return i
	}

	for a := 0; a < n-1; a++ {
		min1 := pickSmallest()
		min2 := pickSmallest()

		count[n+a] = count[min1] + count[min2]
		parent[min1] = int32(n + a)
		parent[min2] = int32(n + a)
		binary[min2] = 1
	}

	root := int32(size - 1) // 2n-2

	for a := 0; a < n; a++ {
		var codeWalk []uint8
		var nodeWalk []int32

		b := int32(a)
		for {
			codeWalk = append(codeWalk, binary[b])
			nodeWalk = append(nodeWalk, b)
			b = parent[b]
			if b == root {
				break
			}
		}
		codelen := len(codeWalk)
		if codelen > MaxCodeLength {
			return fmt.Errorf("huffman: code length %d for %q exceeds max %d", codelen, entries[a].Word, MaxCodeLength)
		}

		code := make([]uint8, codelen)
		path := make([]int32, codelen)
		for k := 0; k < codelen; k++ {
			code[k] = codeWalk[codelen-1-k]
		}
		path[0] = int32(n - 2)
		for k := 1; k < codelen; k++ {
			path[k] = nodeWalk[codelen-k] - int32(n)
		}

		entries[a].Code = code
		entries[a].Path = path
	}

	return nil
}
