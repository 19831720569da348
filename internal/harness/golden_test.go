package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTrace(t *testing.T) {
	result := &Result{
		Pass:     true,
		EngineID: "BalancedRand_Range_1_3_3_5_2_0.7",
		Trace: []TraceEvent{
			{Seq: 1, Phase: "setup", Op: OpBlacklistSet, Input: "3", Pool: []string{"1", "2"}},
			{Seq: 2, Phase: "step", Op: OpDraw, Output: []string{"1"}, Round: 1, Pool: []string{"2"}},
			{Seq: 3, Phase: "step", Op: OpDrawMultiple, Input: "4", Error: "POOL_TOO_SMALL", Round: 1, Pool: []string{"2"}},
		},
		Final: []FinalEntry{
			{Label: "1", Count: 1, LastRound: 1},
			{Label: "2", Count: 0, LastRound: -1},
			{Label: "3", Count: 0, LastRound: -1},
		},
	}

	want := `scenario: demo
engine: BalancedRand_Range_1_3_3_5_2_0.7
trace:
001 setup blacklist_set 3 | round=0 pool=[1 2]
002 draw -> 1 | round=1 pool=[2]
003 draw_multiple 4 ! POOL_TOO_SMALL | round=1 pool=[2]
final:
1 count=1 last=1
2 count=0 last=-1
3 count=0 last=-1
`
	assert.Equal(t, want, string(RenderTrace("demo", result)))
}

func TestRenderTrace_EmptyPool(t *testing.T) {
	result := NewResult()
	result.EngineID = "e"
	result.Trace = append(result.Trace, TraceEvent{Seq: 1, Phase: "step", Op: OpBlacklistClear, Pool: []string{}})

	assert.Equal(t, "scenario: empty\nengine: e\ntrace:\n001 blacklist_clear | round=0 pool=[]\nfinal:\n",
		string(RenderTrace("empty", result)))
}
