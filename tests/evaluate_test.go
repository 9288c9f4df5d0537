package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/notewise/internal/dataset"
	"github.com/farcloser/notewise/tests/testutils"
)

func TestEvaluateCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "evaluate without arguments fails",
			Command:     test.Command("evaluate"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "evaluate on a missing directory fails",
			Command:     test.Command("evaluate", "/nonexistent/dataset"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "evaluate with missing recordings fails",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Single))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("evaluate", "--kinds", "single,octave", data.Labels().Get("dir"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "evaluate with an unknown dataset kind fails",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Octave))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("evaluate", "--kinds", "minor", data.Labels().Get("dir"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "evaluate prints one summary per classifier",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Octave, dataset.OctaveMajor))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("evaluate", "--kinds", "octave,octave-major", data.Labels().Get("dir"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("Octaves: learning"),
						expectContains("Octave-Majors: learning"),
						expectContains("All: learning"),
						expectContains("(26 recordings)"),
					),
				}
			},
		},
		{
			Description: "evaluate as a latex table",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Octave))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("evaluate", "--kinds", "octave", "--format", "latex", data.Labels().Get("dir"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("Octaves & "),
						expectContains("All & "),
						expectContains("\\hline"),
						expectLines(4),
					),
				}
			},
		},
		{
			Description: "evaluate in the log domain with models as json",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Octave))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"evaluate",
					"--kinds",
					"octave",
					"--log-domain",
					"--debug",
					"--format",
					"json",
					"--workers",
					"2",
					data.Labels().Get("dir"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectValidJSON(),
						expectContains(`"member_variances"`),
						expectContains(`"run_id"`),
					),
				}
			},
		},
		{
			Description: "evaluate reproducing the historical combined classifier",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("dir", testutils.Dataset(data, helpers, dataset.Octave, dataset.DoubleMajor))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(
					"evaluate",
					"--kinds",
					"octave,double-major",
					"--repeat-last-dataset",
					"--format",
					"json",
					"--debug",
					data.Labels().Get("dir"),
				)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains(`"double-major"`),
				}
			},
		},
	}

	testCase.Run(t)
}
