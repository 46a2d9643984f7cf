// Package metrics implements the dialogue evaluation metrics: distinct-n
// lexical diversity and BLEU against multiple references.
//
// Two BLEU variants are provided, mirroring the reference evaluator:
//   - CorpusBLEU: corpus-level Bleu_1..4 with clipped counts against the
//     maximum reference count and a closest-reference brevity penalty
//     (the nlgeval/MSCOCO formulation used for reported numbers).
//   - MaxSentenceBLEU: mean over hypotheses of the best smoothed sentence
//     BLEU across references, for response-ranking experiments.
//
// All metric values are ratios in [0, 1]; use Percent to format them the
// way the evaluator prints them (x100, two decimals for distinct).
package metrics

import (
	"math"
	"strings"
)

// Diversity computes distinct-1 and distinct-2 over a set of hypotheses:
// the ratio of unique n-grams to total n-grams across the whole set.
//
// A set with no tokens yields zeros.
func Diversity(hyps [][]string) (dist1, dist2 float64) {
	var tokens [2]float64
	types := [2]map[string]struct{}{{}, {}}

	for _, line := range hyps {
		for n := 0; n < 2; n++ {
			for i := 0; i+n < len(line); i++ {
				gram := strings.Join(line[i:i+n+1], " ")
				types[n][gram] = struct{}{}
				tokens[n]++
			}
		}
	}

	if tokens[0] > 0 {
		dist1 = float64(len(types[0])) / tokens[0]
	}
	if tokens[1] > 0 {
		dist2 = float64(len(types[1])) / tokens[1]
	}
	return dist1, dist2
}

// Percent scales a ratio to a percentage rounded to two decimals.
func Percent(x float64) float64 {
	return math.Round(x*10000) / 100
}
