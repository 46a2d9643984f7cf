package plugins

import (
	"errors"
	"fmt"
	"strconv"
)

// Criterion validation errors.
var (
	ErrBadLatentClasses = errors.New("latent class count must be at least 1")
	ErrBadScale         = errors.New("latent scale must be non-negative")
	ErrBadSmoothing     = errors.New("label smoothing must be in [0, 1)")
)

func init() {
	Criterions.Register(latentCrossEntropy{})
}

// latentCrossEntropy is label-smoothed token cross-entropy plus a scaled
// categorical term over K latent classes inferred from the z stream.
type latentCrossEntropy struct{}

func (latentCrossEntropy) Name() string { return "latent_cross_entropy" }

func (latentCrossEntropy) Description() string {
	return "label-smoothed cross-entropy with a scaled K-class latent term"
}

func (latentCrossEntropy) Args(opts CriterionOptions) ([]string, error) {
	if opts.K < 1 {
		return nil, fmt.Errorf("%w: K=%d", ErrBadLatentClasses, opts.K)
	}
	if opts.Scale < 0 {
		return nil, fmt.Errorf("%w: scale=%g", ErrBadScale, opts.Scale)
	}
	if opts.LabelSmoothing < 0 || opts.LabelSmoothing >= 1 {
		return nil, fmt.Errorf("%w: %g", ErrBadSmoothing, opts.LabelSmoothing)
	}

	return []string{
		"--criterion", "latent_cross_entropy",
		"--K", strconv.Itoa(opts.K),
		"--scale", formatFloat(opts.Scale),
		"--label-smoothing", formatFloat(opts.LabelSmoothing),
	}, nil
}

// formatFloat renders floats without trailing zeros, the way the
// documented invocations write them.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
