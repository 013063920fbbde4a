// Package embedding provides a deterministic text embedder based on the
// hashing trick. Tokens are hashed into a fixed number of buckets and the
// resulting count vector is L2-normalized, so identical texts always embed
// to identical vectors and cosine similarity behaves sensibly without any
// external model.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the bucket count used when none is configured.
const DefaultDimensions = 256

// Embedder turns text into fixed-size vectors.
type Embedder struct {
	dims int
}

// New creates an Embedder with the given dimensionality. Non-positive
// values fall back to DefaultDimensions.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Dimensions returns the vector size produced by Embed.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// Embed maps text to an L2-normalized bucket-count vector. Empty or
// token-free text yields the zero vector.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dims)

	for _, token := range Tokenize(text) {
		h := fnv.New32a()
		// fnv's Write never returns an error
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%e.dims]++
	}

	normalize(vec)
	return vec
}

// Cosine returns the cosine similarity of two vectors, 0 when either is
// zero-length or all zeros.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Tokenize lowercases text and splits it into alphanumeric runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
