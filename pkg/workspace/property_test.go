package workspace_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/heist/pkg/workspace"
	"github.com/calvinalkan/heist/pkg/workspace/model"
)

// Test_Workspace_Matches_Model drives the workspace and the reference model
// with the same random operations and compares observable state after every
// step. Indices and values deliberately stray out of range.
func Test_Workspace_Matches_Model(t *testing.T) {
	t.Parallel()

	for seed := range uint64(32) {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			ops := workspace.NewSource(seed)
			ws := workspace.New(workspace.NewSource(seed + 1000))
			m := model.New(model.Ints(ws.Secret()))

			for step := range 300 {
				desc := applyRandomOp(t, ops, ws, m)

				if diff := cmp.Diff(m.Slots, model.Encode(ws.Snapshot().Slots)); diff != "" {
					t.Fatalf("step %d (%s): slots mismatch (-model +real):\n%s", step, desc, diff)
				}

				snap := ws.Snapshot()
				got := [3]int{snap.Score, snap.OpsUsed, snap.TimeRemaining}
				want := [3]int{m.Score, m.OpsUsed, m.TimeRemaining}

				if got != want {
					t.Fatalf("step %d (%s): score/ops/time = %v, model %v", step, desc, got, want)
				}
			}
		})
	}
}

func applyRandomOp(t *testing.T, ops workspace.Source, ws *workspace.Workspace, m *model.Workspace) string {
	t.Helper()

	switch ops.IntN(10) {
	case 0, 1, 2, 3:
		index := ops.IntN(workspace.Capacity+2) - 1
		value := ops.IntN(11)

		realErr := ws.Insert(index, workspace.Digit(value))
		modelErr := m.Insert(index, value)
		checkSameError(t, realErr, modelErr)

		return fmt.Sprintf("insert(%d, %d)", index, value)

	case 4, 5:
		index := ops.IntN(workspace.Capacity+2) - 1

		realGot, realErr := ws.Delete(index)
		modelGot, modelErr := m.Delete(index)
		checkSameError(t, realErr, modelErr)

		if realErr == nil && int(realGot) != modelGot {
			t.Fatalf("delete(%d) = %d, model %d", index, realGot, modelGot)
		}

		return fmt.Sprintf("delete(%d)", index)

	case 6, 7:
		pattern := make([]int, 1+ops.IntN(3))
		for i := range pattern {
			pattern[i] = ops.IntN(4)
		}

		if ops.IntN(4) == 0 {
			pattern = model.Ints(ws.Secret())
		}

		digits := make([]workspace.Digit, len(pattern))
		for i, v := range pattern {
			digits[i] = workspace.Digit(v)
		}

		realOut, realErr := ws.Search(digits)
		modelOut, modelErr := m.Search(pattern)
		checkSameError(t, realErr, modelErr)

		got := model.SearchResult{
			Found:         realOut.Found,
			Index:         realOut.Index,
			LevelComplete: realOut.LevelComplete,
			ScoreDelta:    realOut.ScoreDelta,
		}
		if diff := cmp.Diff(modelOut, got); diff != "" {
			t.Fatalf("search(%v) mismatch (-model +real):\n%s", pattern, diff)
		}

		return fmt.Sprintf("search(%v)", pattern)

	default:
		realExpired := ws.Tick() == workspace.Expired
		modelExpired := m.Tick()

		if realExpired != modelExpired {
			t.Fatalf("tick expired = %v, model %v", realExpired, modelExpired)
		}

		return "tick"
	}
}

func checkSameError(t *testing.T, realErr, modelErr error) {
	t.Helper()

	if (realErr == nil) != (modelErr == nil) {
		t.Fatalf("error mismatch: real=%v model=%v", realErr, modelErr)
	}

	if modelErr != nil && !errors.Is(realErr, modelErr) {
		t.Fatalf("error kind mismatch: real=%v model=%v", realErr, modelErr)
	}
}
