package umi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHammingDistance(t *testing.T) {
	assert.Equal(t, 0, Distance(Hamming, []byte("AAAA"), []byte("AAAA")))
	assert.Equal(t, 1, Distance(Hamming, []byte("AAAA"), []byte("AAAT")))
	assert.Equal(t, 4, Distance(Hamming, []byte("AAAA"), []byte("TTTT")))
}

func TestHammingDistancePanicsOnLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Distance(Hamming, []byte("AAA"), []byte("AAAA"))
	})
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, Distance(Levenshtein, []byte("AAAA"), []byte("AAAA")))
	assert.Equal(t, 1, Distance(Levenshtein, []byte("AAAA"), []byte("AAA")))
	assert.Equal(t, 1, Distance(Levenshtein, []byte("AAAA"), []byte("AAAAC")))
}

func TestDefaultProactive(t *testing.T) {
	assert.False(t, DefaultProactive(Hamming, 1, true))
	assert.True(t, DefaultProactive(Hamming, 3, false))
	assert.False(t, DefaultProactive(Hamming, 4, false))
	assert.True(t, DefaultProactive(Levenshtein, 2, false))
	assert.False(t, DefaultProactive(Levenshtein, 3, false))
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "hamming", Hamming.String())
	assert.Equal(t, "levenshtein", Levenshtein.String())
}
