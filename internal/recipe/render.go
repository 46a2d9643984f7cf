package recipe

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/csda-ml/csda/internal/dict"
	"github.com/csda-ml/csda/internal/plugins"
)

// Default binaries of the external framework.
const (
	defaultTrainBin    = "fairseq-train"
	defaultGenerateBin = "fairseq-generate"
)

// ResolveEOUIndex loads the response-side dictionary under dataDir and
// returns the framework index of the end-of-utterance marker, reserved
// offset included.
func ResolveEOUIndex(dataDir, stream, marker string) (int, error) {
	d, err := dict.Load(filepath.Join(dataDir, "dict."+stream+".txt"))
	if err != nil {
		return 0, err
	}
	idx, err := d.StrictIndex(marker)
	if err != nil {
		return 0, fmt.Errorf("end-of-utterance marker: %w", err)
	}
	return idx, nil
}

// datasetConfig builds the task's DatasetConfig from the experiment.
func (e *Experiment) datasetConfig(eouIndex int) plugins.DatasetConfig {
	ds := plugins.DatasetConfig{EOUIndex: eouIndex}
	if b := e.Dataset; b != nil {
		ds.Z = b.Z
		ds.Cxt = b.Cxt
		ds.Res = b.Res
		ds.MaxSourcePositions = b.MaxSourcePositions
		ds.MaxTargetPositions = b.MaxTargetPositions
		ds.TruncateSource = b.TruncateSource
		ds.LeftPadSource = b.LeftPadSource
		ds.LeftPadTarget = b.LeftPadTarget
	}
	return ds
}

// criterionOptions builds the criterion options, applying the documented
// defaults (K=5, scale=1.0, label smoothing 0.1).
func (e *Experiment) criterionOptions() plugins.CriterionOptions {
	opts := plugins.CriterionOptions{K: 5, Scale: 1.0, LabelSmoothing: 0.1}
	if b := e.Latent; b != nil {
		if b.K != 0 {
			opts.K = b.K
		}
		if b.Scale != 0 {
			opts.Scale = b.Scale
		}
	}
	if b := e.Regularization; b != nil && b.LabelSmoothing != 0 {
		opts.LabelSmoothing = b.LabelSmoothing
	}
	return opts
}

// TrainArgs renders the full training invocation, binary first.
//
// Flag order is fixed so invocations are reproducible and diffable across
// runs: data dir, task, architecture, criterion, optimizer, schedule,
// batching, regularization, checkpointing, run limits.
func (e *Experiment) TrainArgs(eouIndex int) ([]string, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	task, _ := plugins.Tasks.Lookup(e.TaskName())
	arch, _ := plugins.Architectures.Lookup(e.ArchitectureName())
	crit, _ := plugins.Criterions.Lookup(e.CriterionName())

	bin := e.TrainBin
	if bin == "" {
		bin = defaultTrainBin
	}
	argv := []string{bin, e.DataDir}

	taskArgs, err := task.Args(e.datasetConfig(eouIndex))
	if err != nil {
		return nil, err
	}
	argv = append(argv, taskArgs...)
	argv = append(argv, arch.Args()...)

	critArgs, err := crit.Args(e.criterionOptions())
	if err != nil {
		return nil, err
	}
	argv = append(argv, critArgs...)

	opt := e.Optimizer
	name, betas := "adam", "(0.9, 0.98)"
	var weightDecay, clipNorm float64 = 0.0001, 0.0
	if opt != nil {
		if opt.Name != "" {
			name = opt.Name
		}
		if opt.Betas != "" {
			betas = opt.Betas
		}
		if opt.WeightDecay != 0 {
			weightDecay = opt.WeightDecay
		}
		if opt.ClipNorm != 0 {
			clipNorm = opt.ClipNorm
		}
	}
	argv = append(argv, "--optimizer", name)
	if name == "adam" {
		argv = append(argv, "--adam-betas", betas)
	}
	argv = append(argv,
		"--weight-decay", formatF(weightDecay),
		"--clip-norm", formatF(clipNorm),
	)

	sched := e.LRScheduler
	schedName, lr := "inverse_sqrt", 0.0005
	warmup, warmupInit := 4000, 1e-07
	if sched != nil {
		if sched.Name != "" {
			schedName = sched.Name
		}
		if sched.LR != 0 {
			lr = sched.LR
		}
		if sched.WarmupUpdates != 0 {
			warmup = sched.WarmupUpdates
		}
		if sched.WarmupInitLR != 0 {
			warmupInit = sched.WarmupInitLR
		}
	}
	argv = append(argv,
		"--lr", formatF(lr),
		"--lr-scheduler", schedName,
		"--warmup-updates", strconv.Itoa(warmup),
		"--warmup-init-lr", formatF(warmupInit),
	)

	maxTokens, updateFreq := 4096, 8
	if b := e.Batching; b != nil {
		if b.MaxTokens != 0 {
			maxTokens = b.MaxTokens
		}
		if b.UpdateFreq != 0 {
			updateFreq = b.UpdateFreq
		}
	}
	argv = append(argv,
		"--max-tokens", strconv.Itoa(maxTokens),
		"--update-freq", strconv.Itoa(updateFreq),
	)

	dropout, attnDropout := 0.3, 0.1
	if b := e.Regularization; b != nil {
		if b.Dropout != 0 {
			dropout = b.Dropout
		}
		if b.AttentionDropout != 0 {
			attnDropout = b.AttentionDropout
		}
	}
	argv = append(argv,
		"--dropout", formatF(dropout),
		"--attention-dropout", formatF(attnDropout),
	)

	if e.SaveDir != "" {
		argv = append(argv, "--save-dir", e.SaveDir)
	}
	if b := e.Checkpointing; b != nil {
		if b.KeepLast != 0 {
			argv = append(argv, "--keep-last-epochs", strconv.Itoa(b.KeepLast))
		}
		if b.NoEpochCheckpoints {
			argv = append(argv, "--no-epoch-checkpoints")
		}
	}

	if e.MaxUpdates != 0 {
		argv = append(argv, "--max-update", strconv.Itoa(e.MaxUpdates))
	}
	if e.MaxEpochs != 0 {
		argv = append(argv, "--max-epoch", strconv.Itoa(e.MaxEpochs))
	}
	if e.Seed != 0 {
		argv = append(argv, "--seed", strconv.Itoa(e.Seed))
	}
	if e.FP16 {
		argv = append(argv, "--fp16")
	}
	return argv, nil
}

// GenerateArgs renders the generation invocation against checkpointPath.
func (e *Experiment) GenerateArgs(eouIndex int, checkpointPath string) ([]string, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	task, _ := plugins.Tasks.Lookup(e.TaskName())

	bin := e.GenerateBin
	if bin == "" {
		bin = defaultGenerateBin
	}
	argv := []string{bin, e.DataDir}

	taskArgs, err := task.Args(e.datasetConfig(eouIndex))
	if err != nil {
		return nil, err
	}
	argv = append(argv, taskArgs...)
	argv = append(argv, "--path", checkpointPath)

	beam, maxLenB, lenPen, subset := 5, 100, 1.0, "test"
	batchSize := 32
	removeBPE := ""
	if b := e.Generation; b != nil {
		if b.Beam != 0 {
			beam = b.Beam
		}
		if b.MaxLenB != 0 {
			maxLenB = b.MaxLenB
		}
		if b.LenPen != 0 {
			lenPen = b.LenPen
		}
		if b.Subset != "" {
			subset = b.Subset
		}
		if b.BatchSize != 0 {
			batchSize = b.BatchSize
		}
		removeBPE = b.RemoveBPE
	}
	argv = append(argv,
		"--gen-subset", subset,
		"--beam", strconv.Itoa(beam),
		"--max-len-b", strconv.Itoa(maxLenB),
		"--lenpen", formatF(lenPen),
		"--batch-size", strconv.Itoa(batchSize),
	)
	if removeBPE != "" {
		argv = append(argv, "--remove-bpe", removeBPE)
	}
	return argv, nil
}

func formatF(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
