// Package recipe loads declarative experiment recipes and renders them
// into the external framework's command-line invocations.
//
// A recipe file holds one or more experiment blocks:
//
//	experiment "dailydialog_base" {
//	  data_dir     = "data-bin/dd"
//	  save_dir     = "checkpoints/${run_id}"
//	  architecture = "csda_transformer"
//
//	  latent        { K = 5  scale = 1.0 }
//	  optimizer     { name = "adam"  betas = "(0.9, 0.98)" }
//	  lr_scheduler  { name = "inverse_sqrt"  lr = 0.0005  warmup_updates = 4000 }
//	  batching      { max_tokens = 4096  update_freq = 8 }
//	  generation    { beam = 5  max_len_b = 100 }
//	}
//
// The eval context exposes run_id, data_dir and save_dir variables so
// recipes can interpolate them. Task, architecture and criterion names
// are validated against the plugin registries before rendering.
package recipe

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/csda-ml/csda/internal/plugins"
)

// Common errors.
var (
	ErrNoExperiment = errors.New("experiment not found in recipe")
	ErrNoDataDir    = errors.New("experiment has no data_dir")
)

// File is a parsed recipe file.
type File struct {
	Experiments []*Experiment `hcl:"experiment,block"`
}

// Experiment is one experiment block.
type Experiment struct {
	Name string `hcl:"name,label"`

	DataDir string `hcl:"data_dir"`
	SaveDir string `hcl:"save_dir,optional"`

	Task         string `hcl:"task,optional"`
	Architecture string `hcl:"architecture,optional"`
	Criterion    string `hcl:"criterion,optional"`

	GPUs       []int `hcl:"gpus,optional"`
	MaxUpdates int   `hcl:"max_updates,optional"`
	MaxEpochs  int   `hcl:"max_epochs,optional"`
	Seed       int   `hcl:"seed,optional"`
	FP16       bool  `hcl:"fp16,optional"`

	TrainBin    string `hcl:"train_bin,optional"`
	GenerateBin string `hcl:"generate_bin,optional"`

	Latent         *LatentBlock         `hcl:"latent,block"`
	Optimizer      *OptimizerBlock      `hcl:"optimizer,block"`
	LRScheduler    *LRSchedulerBlock    `hcl:"lr_scheduler,block"`
	Batching       *BatchingBlock       `hcl:"batching,block"`
	Regularization *RegularizationBlock `hcl:"regularization,block"`
	Checkpointing  *CheckpointingBlock  `hcl:"checkpointing,block"`
	Dataset        *DatasetBlock        `hcl:"dataset,block"`
	Generation     *GenerationBlock     `hcl:"generation,block"`
}

// LatentBlock configures the latent term of the criterion.
type LatentBlock struct {
	K     int     `hcl:"K,optional"`
	Scale float64 `hcl:"scale,optional"`
}

// OptimizerBlock selects and configures the optimizer.
type OptimizerBlock struct {
	Name        string  `hcl:"name,optional"`
	Betas       string  `hcl:"betas,optional"`
	WeightDecay float64 `hcl:"weight_decay,optional"`
	ClipNorm    float64 `hcl:"clip_norm,optional"`
}

// LRSchedulerBlock configures the learning-rate schedule.
type LRSchedulerBlock struct {
	Name          string  `hcl:"name,optional"`
	LR            float64 `hcl:"lr,optional"`
	WarmupUpdates int     `hcl:"warmup_updates,optional"`
	WarmupInitLR  float64 `hcl:"warmup_init_lr,optional"`
}

// BatchingBlock configures batch sizing and gradient accumulation.
type BatchingBlock struct {
	MaxTokens  int `hcl:"max_tokens,optional"`
	UpdateFreq int `hcl:"update_freq,optional"`
}

// RegularizationBlock configures dropout and label smoothing.
type RegularizationBlock struct {
	Dropout          float64 `hcl:"dropout,optional"`
	AttentionDropout float64 `hcl:"attention_dropout,optional"`
	LabelSmoothing   float64 `hcl:"label_smoothing,optional"`
}

// CheckpointingBlock configures checkpoint retention.
type CheckpointingBlock struct {
	KeepLast           int  `hcl:"keep_last,optional"`
	NoEpochCheckpoints bool `hcl:"no_epoch_checkpoints,optional"`
}

// DatasetBlock overrides the dialogue dataset flags.
type DatasetBlock struct {
	Z                  string `hcl:"z,optional"`
	Cxt                string `hcl:"cxt,optional"`
	Res                string `hcl:"res,optional"`
	EOU                string `hcl:"eou,optional"`
	MaxSourcePositions int    `hcl:"max_source_positions,optional"`
	MaxTargetPositions int    `hcl:"max_target_positions,optional"`
	TruncateSource     bool   `hcl:"truncate_source,optional"`
	LeftPadSource      bool   `hcl:"left_pad_source,optional"`
	LeftPadTarget      bool   `hcl:"left_pad_target,optional"`
}

// GenerationBlock configures beam search for the generate invocation.
type GenerationBlock struct {
	Beam      int     `hcl:"beam,optional"`
	MaxLenB   int     `hcl:"max_len_b,optional"`
	LenPen    float64 `hcl:"lenpen,optional"`
	Subset    string  `hcl:"subset,optional"`
	BatchSize int     `hcl:"batch_size,optional"`
	RemoveBPE string  `hcl:"remove_bpe,optional"`
}

// Vars are the interpolation variables exposed to recipes.
type Vars struct {
	RunID   string
	DataDir string
	SaveDir string
}

// Load parses a recipe file.
func Load(path string, vars Vars) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse recipe: %w", diags)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"run_id":   cty.StringVal(vars.RunID),
			"data_dir": cty.StringVal(vars.DataDir),
			"save_dir": cty.StringVal(vars.SaveDir),
		},
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode recipe: %w", diags)
	}
	return &file, nil
}

// Experiment returns the named experiment, or the only one when name is
// empty and the file holds a single block.
func (f *File) Experiment(name string) (*Experiment, error) {
	if name == "" && len(f.Experiments) == 1 {
		return f.Experiments[0], nil
	}
	for _, exp := range f.Experiments {
		if exp.Name == name {
			return exp, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoExperiment, name)
}

// Validate checks the experiment against the plugin registries and fills
// nothing in; rendering applies defaults.
func (e *Experiment) Validate() error {
	if e.DataDir == "" {
		return fmt.Errorf("%w: experiment %q", ErrNoDataDir, e.Name)
	}
	if _, err := plugins.Tasks.Lookup(e.TaskName()); err != nil {
		return err
	}
	if _, err := plugins.Architectures.Lookup(e.ArchitectureName()); err != nil {
		return err
	}
	if _, err := plugins.Criterions.Lookup(e.CriterionName()); err != nil {
		return err
	}
	return nil
}

// TaskName returns the configured task, defaulting to csda.
func (e *Experiment) TaskName() string {
	if e.Task == "" {
		return "csda"
	}
	return e.Task
}

// ArchitectureName returns the configured architecture, defaulting to
// csda_transformer.
func (e *Experiment) ArchitectureName() string {
	if e.Architecture == "" {
		return "csda_transformer"
	}
	return e.Architecture
}

// CriterionName returns the configured criterion, defaulting to
// latent_cross_entropy.
func (e *Experiment) CriterionName() string {
	if e.Criterion == "" {
		return "latent_cross_entropy"
	}
	return e.Criterion
}

// EOUMarker returns the configured end-of-utterance token.
func (e *Experiment) EOUMarker() string {
	if e.Dataset != nil && e.Dataset.EOU != "" {
		return e.Dataset.EOU
	}
	return "__eou__"
}

// ResStream returns the response stream name used for dictionary lookup.
func (e *Experiment) ResStream() string {
	if e.Dataset != nil && e.Dataset.Res != "" {
		return e.Dataset.Res
	}
	return "res"
}
