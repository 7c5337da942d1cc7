package clauses

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const embeddingDim = 256

// localEmbedding hashes word tokens into a fixed-size frequency vector and
// normalizes it. It runs fully offline, is deterministic, and is good enough
// to rank a small clause corpus by lexical overlap.
func localEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, embeddingDim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()'\"")
		if len(tok) < 2 {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%embeddingDim]++
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		vec[0] = 1
		return vec, nil
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}
