// Package plugins defines the task, model-architecture and criterion
// plugins this project registers into the external framework, together
// with the flag surface each contributes to a training or generation
// command line.
//
// The framework side of each plugin (the actual model, loss and data
// loading code) lives in the framework plugin directory; what is kept
// here is the registered name, its flags, defaults and validation, so
// that rendered invocations are always consistent with what the
// framework will accept.
package plugins

import (
	"github.com/csda-ml/csda/internal/registry"
)

// Global registries, mirroring the framework's register_task /
// register_model_architecture / register_criterion decorators.
var (
	Tasks         = registry.New[Task]("task")
	Architectures = registry.New[Architecture]("architecture")
	Criterions    = registry.New[Criterion]("criterion")
)

// DatasetConfig carries the dataset-specific settings a task turns into
// flags.
type DatasetConfig struct {
	// Z, Cxt and Res name the data streams (file suffixes) for the
	// latent-evidence, context and response sides.
	Z   string
	Cxt string
	Res string

	// EOUIndex is the resolved vocabulary index of the end-of-utterance
	// token, reserved-offset included.
	EOUIndex int

	MaxSourcePositions int
	MaxTargetPositions int
	TruncateSource     bool
	LeftPadSource      bool
	LeftPadTarget      bool
}

// Task is a registered task plugin.
type Task interface {
	registry.Entry

	// Args renders the task's command-line contribution.
	Args(ds DatasetConfig) ([]string, error)
}

// Architecture is a registered model architecture.
type Architecture interface {
	registry.Entry

	// Args renders the architecture selection flags.
	Args() []string

	// Defaults documents the hyperparameters the architecture preset
	// fixes inside the framework plugin (flag name to value).
	Defaults() map[string]string
}

// CriterionOptions carries the tunable settings of a criterion.
type CriterionOptions struct {
	// K is the number of latent classes.
	K int

	// Scale weights the latent term against the token cross-entropy.
	Scale float64

	// LabelSmoothing is the usual label-smoothing epsilon.
	LabelSmoothing float64
}

// Criterion is a registered training criterion.
type Criterion interface {
	registry.Entry

	// Args renders the criterion's command-line contribution.
	Args(opts CriterionOptions) ([]string, error)
}
