// Package workspace implements the array-heist engine: a fixed-capacity row
// of optional digits that a player mutates with shifting inserts and deletes,
// and searches for a secret pattern to complete a level.
//
// The engine owns all game state and does no I/O and no scheduling. A front
// end renders [Snapshot] values, drives [Workspace.Tick] from its own clock,
// and replays [SearchOutcome.Probes] with whatever animation delay it likes.
//
// # Basic Usage
//
//	ws := workspace.New(workspace.NewSource(seed))
//	if err := ws.NewLevel(1); err != nil {
//	    // only fails for an unknown level
//	}
//
//	_ = ws.Insert(0, 4)
//	_ = ws.Insert(1, 2)
//
//	out, err := ws.Search([]workspace.Digit{4, 2})
//	if out.LevelComplete {
//	    // out.ScoreDelta was added to the score
//	}
//
// # Coordinates
//
// Slot indices address the raw row, empty slots included. Search results
// are reported in compact coordinates: positions within the row after empty
// slots are removed. [Workspace.SlotIndex] maps back for highlighting.
//
// # Concurrency
//
// A Workspace has exactly one owner. Methods are not safe for concurrent use.
package workspace
