package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csda-ml/csda/internal/registry"
)

const sampleRecipe = `
experiment "dailydialog_base" {
  data_dir = "${data_dir}"
  save_dir = "checkpoints/${run_id}"

  max_updates = 100000
  seed        = 1
  gpus        = [0, 1]

  latent {
    K     = 10
    scale = 0.5
  }

  optimizer {
    name         = "adam"
    betas        = "(0.9, 0.98)"
    weight_decay = 0.0001
  }

  lr_scheduler {
    name           = "inverse_sqrt"
    lr             = 0.0005
    warmup_updates = 4000
  }

  batching {
    max_tokens  = 4096
    update_freq = 8
  }

  regularization {
    dropout         = 0.3
    label_smoothing = 0.1
  }

  checkpointing {
    keep_last            = 5
    no_epoch_checkpoints = true
  }

  generation {
    beam      = 5
    max_len_b = 100
  }
}
`

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Interpolation(t *testing.T) {
	path := writeRecipe(t, sampleRecipe)

	file, err := Load(path, Vars{RunID: "r42", DataDir: "data-bin/dd"})
	require.NoError(t, err)

	exp, err := file.Experiment("dailydialog_base")
	require.NoError(t, err)
	assert.Equal(t, "data-bin/dd", exp.DataDir)
	assert.Equal(t, "checkpoints/r42", exp.SaveDir)
	assert.Equal(t, []int{0, 1}, exp.GPUs)
	assert.Equal(t, 10, exp.Latent.K)
}

func TestExperiment_Defaults(t *testing.T) {
	path := writeRecipe(t, `experiment "mini" { data_dir = "d" }`)
	file, err := Load(path, Vars{})
	require.NoError(t, err)

	// Single experiment: empty name selects it.
	exp, err := file.Experiment("")
	require.NoError(t, err)
	assert.Equal(t, "csda", exp.TaskName())
	assert.Equal(t, "csda_transformer", exp.ArchitectureName())
	assert.Equal(t, "latent_cross_entropy", exp.CriterionName())
	assert.Equal(t, "__eou__", exp.EOUMarker())
	assert.Equal(t, "res", exp.ResStream())
	require.NoError(t, exp.Validate())
}

func TestExperiment_UnknownName(t *testing.T) {
	path := writeRecipe(t, sampleRecipe)
	file, err := Load(path, Vars{})
	require.NoError(t, err)

	_, err = file.Experiment("nonexistent")
	assert.ErrorIs(t, err, ErrNoExperiment)
}

func TestValidate_UnknownPlugins(t *testing.T) {
	exp := &Experiment{Name: "x", DataDir: "d", Architecture: "transformer_wmt"}
	assert.ErrorIs(t, exp.Validate(), registry.ErrUnknown)

	exp = &Experiment{Name: "x"}
	assert.ErrorIs(t, exp.Validate(), ErrNoDataDir)
}

func TestTrainArgs(t *testing.T) {
	path := writeRecipe(t, sampleRecipe)
	file, err := Load(path, Vars{RunID: "r1", DataDir: "data-bin/dd"})
	require.NoError(t, err)
	exp, err := file.Experiment("dailydialog_base")
	require.NoError(t, err)

	argv, err := exp.TrainArgs(5)
	require.NoError(t, err)

	assert.Equal(t, "fairseq-train", argv[0])
	assert.Equal(t, "data-bin/dd", argv[1])

	joined := ""
	for _, a := range argv {
		joined += a + " "
	}
	assert.Contains(t, joined, "--task csda ")
	assert.Contains(t, joined, "--eou 5 ")
	assert.Contains(t, joined, "--arch csda_transformer ")
	assert.Contains(t, joined, "--criterion latent_cross_entropy ")
	assert.Contains(t, joined, "--K 10 ")
	assert.Contains(t, joined, "--scale 0.5 ")
	assert.Contains(t, joined, "--optimizer adam ")
	assert.Contains(t, joined, "--adam-betas (0.9, 0.98) ")
	assert.Contains(t, joined, "--lr 0.0005 ")
	assert.Contains(t, joined, "--lr-scheduler inverse_sqrt ")
	assert.Contains(t, joined, "--warmup-updates 4000 ")
	assert.Contains(t, joined, "--max-tokens 4096 ")
	assert.Contains(t, joined, "--update-freq 8 ")
	assert.Contains(t, joined, "--dropout 0.3 ")
	assert.Contains(t, joined, "--save-dir checkpoints/r1 ")
	assert.Contains(t, joined, "--keep-last-epochs 5 ")
	assert.Contains(t, joined, "--no-epoch-checkpoints ")
	assert.Contains(t, joined, "--max-update 100000 ")
	assert.Contains(t, joined, "--seed 1 ")
}

func TestTrainArgs_Deterministic(t *testing.T) {
	path := writeRecipe(t, sampleRecipe)
	file, err := Load(path, Vars{RunID: "r1", DataDir: "d"})
	require.NoError(t, err)
	exp, err := file.Experiment("dailydialog_base")
	require.NoError(t, err)

	a, err := exp.TrainArgs(5)
	require.NoError(t, err)
	b, err := exp.TrainArgs(5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateArgs(t *testing.T) {
	path := writeRecipe(t, sampleRecipe)
	file, err := Load(path, Vars{DataDir: "data-bin/dd"})
	require.NoError(t, err)
	exp, err := file.Experiment("dailydialog_base")
	require.NoError(t, err)

	argv, err := exp.GenerateArgs(5, "checkpoints/checkpoint_best.pt")
	require.NoError(t, err)

	assert.Equal(t, "fairseq-generate", argv[0])
	joined := ""
	for _, a := range argv {
		joined += a + " "
	}
	assert.Contains(t, joined, "--path checkpoints/checkpoint_best.pt ")
	assert.Contains(t, joined, "--gen-subset test ")
	assert.Contains(t, joined, "--beam 5 ")
	assert.Contains(t, joined, "--max-len-b 100 ")
	assert.Contains(t, joined, "--lenpen 1 ")
}

func TestResolveEOUIndex(t *testing.T) {
	dir := t.TempDir()
	// __eou__ on 0-based line 2: framework index 2 + 3 reserved = 5.
	content := "the 100\n, 80\n__eou__ 60\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict.res.txt"), []byte(content), 0o644))

	idx, err := ResolveEOUIndex(dir, "res", "__eou__")
	require.NoError(t, err)
	assert.Equal(t, 5, idx)

	_, err = ResolveEOUIndex(dir, "res", "<missing>")
	assert.Error(t, err)
}
