package metrics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/csda-ml/csda/internal/parallel"
)

// Common errors.
var (
	ErrNoHypotheses  = errors.New("no hypotheses to score")
	ErrCountMismatch = errors.New("hypothesis and reference counts differ")
)

// Epsilons from the MSCOCO Bleu scorer; they keep log precisions finite
// without noticeably moving non-degenerate scores.
const (
	tiny  = 1e-15
	small = 1e-9
)

// smoothEpsilon is the numerator substituted for zero n-gram matches in
// sentence BLEU (NLTK smoothing method 1).
const smoothEpsilon = 0.1

// ngramCounts counts the n-grams of order n in tokens.
func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

// closestRefLength returns the reference length closest to hypLen,
// preferring the shorter reference on ties.
func closestRefLength(refs [][]string, hypLen int) int {
	best := -1
	for _, ref := range refs {
		if best < 0 {
			best = len(ref)
			continue
		}
		d, bd := abs(len(ref)-hypLen), abs(best-hypLen)
		if d < bd || (d == bd && len(ref) < best) {
			best = len(ref)
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// segmentStats holds the clipped-count statistics of one hypothesis.
type segmentStats struct {
	correct []float64
	total   []float64
	sysLen  float64
	refLen  float64
}

// scoreSegment counts clipped n-gram matches for one hypothesis against
// its reference set.
func scoreSegment(refSet [][]string, hyp []string, maxOrder int) segmentStats {
	st := segmentStats{
		correct: make([]float64, maxOrder),
		total:   make([]float64, maxOrder),
		sysLen:  float64(len(hyp)),
		refLen:  float64(closestRefLength(refSet, len(hyp))),
	}
	for n := 1; n <= maxOrder; n++ {
		maxRef := make(map[string]int)
		for _, ref := range refSet {
			for gram, c := range ngramCounts(ref, n) {
				if c > maxRef[gram] {
					maxRef[gram] = c
				}
			}
		}
		for gram, c := range ngramCounts(hyp, n) {
			st.correct[n-1] += float64(min(c, maxRef[gram]))
		}
		if g := len(hyp) - n + 1; g > 0 {
			st.total[n-1] += float64(g)
		}
	}
	return st
}

// CorpusBLEU computes corpus-level Bleu_1..Bleu_maxOrder.
//
// refs[i] holds the alternative references for hyps[i]. Clipped n-gram
// matches are counted against the maximum count across references, summed
// over the corpus; the brevity penalty uses the closest reference length
// per segment. Returned scores are ratios in [0, 1], index k-1 = Bleu_k.
//
// Segments are scored independently and in parallel on large outputs;
// the reduction order is fixed, so results are deterministic.
func CorpusBLEU(refs [][][]string, hyps [][]string, maxOrder int) ([]float64, error) {
	if len(hyps) == 0 {
		return nil, ErrNoHypotheses
	}
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("%w: %d hypotheses, %d reference sets", ErrCountMismatch, len(hyps), len(refs))
	}

	segments := make([]segmentStats, len(hyps))
	parallel.For(len(hyps), func(i int) {
		segments[i] = scoreSegment(refs[i], hyps[i], maxOrder)
	}, parallel.DefaultConfig())

	correct := make([]float64, maxOrder)
	total := make([]float64, maxOrder)
	var sysLen, refLen float64
	for _, st := range segments {
		sysLen += st.sysLen
		refLen += st.refLen
		for n := 0; n < maxOrder; n++ {
			correct[n] += st.correct[n]
			total[n] += st.total[n]
		}
	}

	bp := 1.0
	if sysLen <= 0 {
		bp = 0
	} else if ratio := sysLen / (refLen + small); ratio < 1 {
		bp = math.Exp(1 - 1/ratio)
	}

	scores := make([]float64, maxOrder)
	logSum := 0.0
	for k := 1; k <= maxOrder; k++ {
		p := (correct[k-1] + tiny) / (total[k-1] + small)
		logSum += math.Log(p)
		scores[k-1] = bp * math.Exp(logSum/float64(k))
	}
	return scores, nil
}

// sentenceBLEU scores one hypothesis against one reference with positional
// weights (weights[n-1] for order n) and epsilon smoothing of zero matches.
func sentenceBLEU(ref, hyp []string, weights []float64) float64 {
	if len(hyp) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= len(weights); n++ {
		w := weights[n-1]
		if w == 0 {
			continue
		}
		hypCounts := ngramCounts(hyp, n)
		refCounts := ngramCounts(ref, n)
		matches := 0
		for gram, c := range hypCounts {
			matches += min(c, refCounts[gram])
		}
		denom := float64(max(1, len(hyp)-n+1))
		num := float64(matches)
		if matches == 0 {
			num = smoothEpsilon
		}
		logSum += w * math.Log(num/denom)
	}

	bp := 1.0
	if len(hyp) < len(ref) {
		bp = math.Exp(1 - float64(len(ref))/float64(len(hyp)))
	}
	return bp * math.Exp(logSum)
}

// MaxSentenceBLEU computes the mean over hypotheses of the best sentence
// BLEU achieved against any of that hypothesis' references.
func MaxSentenceBLEU(refs [][][]string, hyps [][]string, weights []float64) (float64, error) {
	if len(hyps) == 0 {
		return 0, ErrNoHypotheses
	}
	if len(refs) != len(hyps) {
		return 0, fmt.Errorf("%w: %d hypotheses, %d reference sets", ErrCountMismatch, len(hyps), len(refs))
	}

	sum := 0.0
	for i, hyp := range hyps {
		best := 0.0
		for _, ref := range refs[i] {
			if s := sentenceBLEU(ref, hyp, weights); s > best {
				best = s
			}
		}
		sum += best
	}
	return sum / float64(len(hyps)), nil
}

// UniformWeights returns the standard BLEU_k weight vector, 1/k per order.
func UniformWeights(k int) []float64 {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1 / float64(k)
	}
	return w
}
