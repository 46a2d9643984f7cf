package plugins

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/csda-ml/csda/internal/dict"
)

// ErrBadEOUIndex is returned when the end-of-utterance index falls inside
// the reserved range, i.e. the marker was never in the dictionary file.
var ErrBadEOUIndex = errors.New("end-of-utterance index inside reserved range")

func init() {
	Tasks.Register(csdaTask{})
}

// csdaTask is the multi-turn dialogue task. It loads the cxt/res stream
// pair plus the z latent-evidence stream and exposes the dialogue-specific
// flags to the framework.
type csdaTask struct{}

func (csdaTask) Name() string { return "csda" }

func (csdaTask) Description() string {
	return "context-sensitive dialogue generation over .pre/.cxt/.res stream triples"
}

func (csdaTask) Args(ds DatasetConfig) ([]string, error) {
	if ds.Z == "" {
		ds.Z = "z"
	}
	if ds.Cxt == "" {
		ds.Cxt = "cxt"
	}
	if ds.Res == "" {
		ds.Res = "res"
	}
	if ds.MaxSourcePositions == 0 {
		ds.MaxSourcePositions = 1024
	}
	if ds.MaxTargetPositions == 0 {
		ds.MaxTargetPositions = 1024
	}
	if ds.EOUIndex < dict.NumSpecial {
		return nil, fmt.Errorf("%w: %d", ErrBadEOUIndex, ds.EOUIndex)
	}

	args := []string{
		"--task", "csda",
		"--z", ds.Z,
		"--cxt", ds.Cxt,
		"--res", ds.Res,
		"--eou", strconv.Itoa(ds.EOUIndex),
		"--left-pad-source", pyBool(ds.LeftPadSource),
		"--left-pad-target", pyBool(ds.LeftPadTarget),
		"--max-source-positions", strconv.Itoa(ds.MaxSourcePositions),
		"--max-target-positions", strconv.Itoa(ds.MaxTargetPositions),
	}
	if ds.TruncateSource {
		args = append(args, "--truncate-source")
	}
	return args, nil
}

// pyBool renders booleans the way the task's argparse options expect them.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
