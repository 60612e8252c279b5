package workspace_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/heist/pkg/workspace"
)

// seqSource replays vals in order, wrapping around, reduced modulo n.
type seqSource struct {
	vals []int
	next int
}

func newSeqSource(vals ...int) *seqSource {
	return &seqSource{vals: vals}
}

func (s *seqSource) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}

	v := s.vals[s.next%len(s.vals)]
	s.next++

	return v % n
}

// newWorkspace returns a level-1 workspace whose slots match layout, one
// character per slot starting at index 0: a digit fills the slot and '_'
// leaves it empty. The operation count is whatever building the row cost.
func newWorkspace(t *testing.T, src workspace.Source, layout string) *workspace.Workspace {
	t.Helper()

	ws := workspace.New(src)

	for i, ch := range layout {
		if ch == '_' {
			continue
		}

		err := ws.Insert(i, workspace.Digit(ch-'0'))
		if err != nil {
			t.Fatalf("building layout %q: insert(%d, %c): %v", layout, i, ch, err)
		}
	}

	if got := layoutOf(ws.Snapshot()); got != padLayout(layout) {
		t.Fatalf("layout = %q, want %q", got, padLayout(layout))
	}

	return ws
}

func layoutOf(s workspace.Snapshot) string {
	var b strings.Builder
	for _, slot := range s.Slots {
		b.WriteString(slot.String())
	}

	return b.String()
}

func padLayout(layout string) string {
	return layout + strings.Repeat("_", workspace.Capacity-len(layout))
}
