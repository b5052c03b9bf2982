package analyzer

import (
	"hash/fnv"

	"textguard/internal/domain"
)

// DefaultShingleK is the default token window size for fingerprinting.
const DefaultShingleK = 5

// Shingles hashes every contiguous window of k token texts with FNV-64a.
// stride subsamples windows for large documents (stride 1 keeps every
// window, stride 2 keeps every second one, and so on); subsampling trades
// index size for recall and the configured stride is the only knob.
// Inputs shorter than k tokens hash the whole run as a single shingle so
// short texts still fingerprint.
func Shingles(tokens []domain.Token, k, stride int) []uint64 {
	if k <= 0 {
		k = DefaultShingleK
	}
	if stride <= 0 {
		stride = 1
	}
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < k {
		return []uint64{hashWindow(tokens)}
	}

	shingles := make([]uint64, 0, (len(tokens)-k)/stride+1)
	for i := 0; i+k <= len(tokens); i += stride {
		shingles = append(shingles, hashWindow(tokens[i:i+k]))
	}
	return shingles
}

func hashWindow(window []domain.Token) uint64 {
	h := fnv.New64a()
	for i, t := range window {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(t.Text))
	}
	return h.Sum64()
}
