package tests_test

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"

	"github.com/farcloser/notewise/internal/output"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectLines returns a comparator verifying the output has exactly count non-empty lines.
func expectLines(count int) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		lines := 0
		for line := range strings.SplitSeq(stdout, "\n") {
			if strings.TrimSpace(line) != "" {
				lines++
			}
		}

		if lines != count {
			testing.Log(fmt.Sprintf("expected %d lines, got %d in output:\n%s", count, lines, stdout))
			testing.Fail()
		}
	}
}

// expectValidJSON returns a comparator verifying the output parses as JSON.
func expectValidJSON() test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		var decoded any
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			testing.Log(fmt.Sprintf("output is not valid JSON (%v):\n%s", err, stdout))
			testing.Fail()
		}
	}
}

// expectLoudestNote returns a comparator verifying that, in the Parquet file at path, the given note has the
// highest deviation of every frame.
func expectLoudestNote(path func() string, note int64) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		file, err := os.Open(path())
		if err != nil {
			testing.Log(err.Error())
			testing.Fail()

			return
		}
		defer file.Close()

		rows, err := output.ReadParquet(file)
		if err != nil || len(rows) == 0 {
			testing.Log(fmt.Sprintf("reading parquet output: %v (%d rows)", err, len(rows)))
			testing.Fail()

			return
		}

		best := map[int64]output.FeatureRow{}
		for _, row := range rows {
			if current, ok := best[row.Frame]; !ok || row.Deviation > current.Deviation {
				best[row.Frame] = row
			}
		}

		for frame, row := range best {
			if row.Note != note {
				testing.Log(fmt.Sprintf("frame %d: expected note %d to be the loudest, got %d", frame, note, row.Note))
				testing.Fail()
			}
		}
	}
}
