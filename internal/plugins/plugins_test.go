package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csda-ml/csda/internal/registry"
)

func TestBuiltinsRegistered(t *testing.T) {
	assert.Equal(t, []string{"csda"}, Tasks.Names())
	assert.Equal(t, []string{"csda_transformer", "csda_transformer_big"}, Architectures.Names())
	assert.Equal(t, []string{"latent_cross_entropy"}, Criterions.Names())

	_, err := Tasks.Lookup("translation")
	assert.ErrorIs(t, err, registry.ErrUnknown)
}

func TestCSDATask_Args(t *testing.T) {
	task, err := Tasks.Lookup("csda")
	require.NoError(t, err)

	args, err := task.Args(DatasetConfig{EOUIndex: 5, TruncateSource: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--task", "csda",
		"--z", "z",
		"--cxt", "cxt",
		"--res", "res",
		"--eou", "5",
		"--left-pad-source", "False",
		"--left-pad-target", "False",
		"--max-source-positions", "1024",
		"--max-target-positions", "1024",
		"--truncate-source",
	}, args)
}

func TestCSDATask_RejectsReservedEOU(t *testing.T) {
	task, err := Tasks.Lookup("csda")
	require.NoError(t, err)

	// Index 2 is <unk>: the marker was not in the dictionary file.
	_, err = task.Args(DatasetConfig{EOUIndex: 2})
	assert.ErrorIs(t, err, ErrBadEOUIndex)
}

func TestArchitecture_Presets(t *testing.T) {
	arch, err := Architectures.Lookup("csda_transformer")
	require.NoError(t, err)

	assert.Equal(t, []string{"--arch", "csda_transformer"}, arch.Args())
	assert.Equal(t, "512", arch.Defaults()["encoder-embed-dim"])

	big, err := Architectures.Lookup("csda_transformer_big")
	require.NoError(t, err)
	assert.Equal(t, "1024", big.Defaults()["encoder-embed-dim"])
}

func TestLatentCrossEntropy_Args(t *testing.T) {
	crit, err := Criterions.Lookup("latent_cross_entropy")
	require.NoError(t, err)

	args, err := crit.Args(CriterionOptions{K: 5, Scale: 1, LabelSmoothing: 0.1})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--criterion", "latent_cross_entropy",
		"--K", "5",
		"--scale", "1",
		"--label-smoothing", "0.1",
	}, args)
}

func TestLatentCrossEntropy_Validation(t *testing.T) {
	crit, err := Criterions.Lookup("latent_cross_entropy")
	require.NoError(t, err)

	tests := []struct {
		name    string
		opts    CriterionOptions
		wantErr error
	}{
		{name: "zero K", opts: CriterionOptions{K: 0, Scale: 1}, wantErr: ErrBadLatentClasses},
		{name: "negative scale", opts: CriterionOptions{K: 5, Scale: -0.1}, wantErr: ErrBadScale},
		{name: "smoothing too high", opts: CriterionOptions{K: 5, Scale: 1, LabelSmoothing: 1}, wantErr: ErrBadSmoothing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crit.Args(tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
