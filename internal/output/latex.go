package output

import (
	"fmt"
	"strings"

	"github.com/farcloser/notewise"
)

// LatexTable renders the body of a LaTeX tabular: one row per classifier with the member and non-member accuracy on
// the learning data, then on the testing data.
func LatexTable(evaluation *notewise.Evaluation) string {
	var builder strings.Builder

	for _, result := range evaluation.Classifiers {
		builder.WriteString(result.Title)

		for _, rate := range []float64{
			result.Learning.MemberRate(),
			result.Learning.NonMemberRate(),
			result.Testing.MemberRate(),
			result.Testing.NonMemberRate(),
		} {
			fmt.Fprintf(&builder, " & %.3g\\%%", 100*rate)
		}

		builder.WriteString(" \\\\ \n\\hline\n")
	}

	return builder.String()
}
