package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderTrace renders a result as the plain-text trace stored in golden
// files. The output depends only on engine behavior, never on wall time.
//
//	scenario: range_balance
//	engine: BalancedRand_Range_1_5_3_5_2_0.7
//	trace:
//	001 draw_multiple 5 -> 1 1 2 2 3 | round=5 pool=[3 4 5]
//	final:
//	1 count=2 last=2
func RenderTrace(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "engine: %s\n", result.EngineID)

	buf.WriteString("trace:\n")
	for _, ev := range result.Trace {
		fmt.Fprintf(&buf, "%03d", ev.Seq)
		if ev.Phase == "setup" {
			buf.WriteString(" setup")
		}
		fmt.Fprintf(&buf, " %s", ev.Op)
		if ev.Input != "" {
			fmt.Fprintf(&buf, " %s", ev.Input)
		}
		if len(ev.Output) > 0 {
			fmt.Fprintf(&buf, " -> %s", strings.Join(ev.Output, " "))
		}
		if ev.Error != "" {
			fmt.Fprintf(&buf, " ! %s", ev.Error)
		}
		fmt.Fprintf(&buf, " | round=%d pool=[%s]\n", ev.Round, strings.Join(ev.Pool, " "))
	}

	buf.WriteString("final:\n")
	for _, f := range result.Final {
		fmt.Fprintf(&buf, "%s count=%d last=%d\n", f.Label, f.Count, f.LastRound)
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, RenderTrace(scenarioName, result))
}
