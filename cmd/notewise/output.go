//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/notewise"
	"github.com/farcloser/notewise/internal/output"
	"github.com/farcloser/notewise/internal/types"
)

const formatLatex = "latex"

var errLatexFeatures = errors.New("latex output is only available for evaluate")

func outputFeatures(
	filePath string,
	cfg notewise.Config,
	lvl *types.Level,
	features []notewise.NoteFeature,
	formatName string,
) error {
	if formatName == formatLatex {
		return errLatexFeatures
	}

	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: filePath,
		Meta:   output.FeaturesToMap(cfg, lvl, features),
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

func outputEvaluation(evaluation *notewise.Evaluation, formatName string, debug bool) error {
	if formatName == formatLatex {
		_, err := fmt.Fprint(os.Stdout, output.LatexTable(evaluation))

		return err
	}

	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.EvaluationToMap(evaluation, true)
	} else {
		meta = output.EvaluationSummary(evaluation)
	}

	data := &format.Data{
		Object: "evaluation",
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
