// Package metrics provides the dialogue evaluation metrics.
//
// This package wraps the internal metrics implementation and provides a
// clean public API for scoring generated responses:
//
//   - Diversity: distinct-1/distinct-2 lexical diversity ratios
//   - CorpusBLEU: corpus-level Bleu_1..4 against multiple references
//   - MaxSentenceBLEU: best smoothed sentence BLEU across references
//
// Example usage:
//
//	import "github.com/csda-ml/csda/metrics"
//
//	dist1, dist2 := metrics.Diversity(hyps)
//	scores, err := metrics.CorpusBLEU(refs, hyps, 4)
//	fmt.Printf("dist1: %.2f\n", metrics.Percent(dist1))
package metrics

import (
	"github.com/csda-ml/csda/internal/metrics"
)

// Common errors.
var (
	ErrNoHypotheses  = metrics.ErrNoHypotheses
	ErrCountMismatch = metrics.ErrCountMismatch
)

// Diversity computes distinct-1 and distinct-2 over a set of hypotheses.
func Diversity(hyps [][]string) (dist1, dist2 float64) {
	return metrics.Diversity(hyps)
}

// CorpusBLEU computes corpus-level Bleu_1..Bleu_maxOrder as ratios.
func CorpusBLEU(refs [][][]string, hyps [][]string, maxOrder int) ([]float64, error) {
	return metrics.CorpusBLEU(refs, hyps, maxOrder)
}

// MaxSentenceBLEU computes the mean best sentence BLEU across references.
func MaxSentenceBLEU(refs [][][]string, hyps [][]string, weights []float64) (float64, error) {
	return metrics.MaxSentenceBLEU(refs, hyps, weights)
}

// UniformWeights returns the standard BLEU_k weight vector.
func UniformWeights(k int) []float64 {
	return metrics.UniformWeights(k)
}

// Percent scales a ratio to a percentage rounded to two decimals.
func Percent(x float64) float64 {
	return metrics.Percent(x)
}
