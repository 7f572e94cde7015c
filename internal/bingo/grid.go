// Package bingo holds the pure grid logic: BINGO-line detection, completion
// percentage, and the classification of a completing transition into the
// single event it produces. Nothing here touches the database, so callers
// can evaluate hypothetical "one goal flipped" states freely.
package bingo

import "math"

// Cell is the minimal view of a goal the grid functions need.
type Cell struct {
	Position    int
	IsCompleted bool
	IsFreeSpace bool
}

// Kind is the event a completing transition produces.
type Kind int

const (
	// GoalCompleted is the default: the goal finished but no new line or
	// board completion resulted.
	GoalCompleted Kind = iota
	// Bingo means the transition produced a new full row, column, or
	// diagonal that did not exist before.
	Bingo
	// BoardCompleted means every goal on the board is now complete. It
	// outranks a simultaneous new BINGO.
	BoardCompleted
)

// HasBingo reports whether any full row, column, or diagonal is completed.
func HasBingo(cells []Cell, size int) bool {
	completed := make(map[int]bool, len(cells))
	for _, c := range cells {
		if c.IsCompleted {
			completed[c.Position] = true
		}
	}

	// Rows
	for row := 0; row < size; row++ {
		full := true
		for col := 0; col < size; col++ {
			if !completed[row*size+col] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	// Columns
	for col := 0; col < size; col++ {
		full := true
		for row := 0; row < size; row++ {
			if !completed[row*size+col] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	// Diagonals
	diag := true
	anti := true
	for i := 0; i < size; i++ {
		if !completed[i*size+i] {
			diag = false
		}
		if !completed[i*size+(size-1-i)] {
			anti = false
		}
	}
	return diag || anti
}

// CompletionPercent is the percent of non-free-space goals completed,
// rounded to the nearest integer. Zero when there are no eligible goals.
func CompletionPercent(cells []Cell) int {
	eligible := 0
	completed := 0
	for _, c := range cells {
		if c.IsFreeSpace {
			continue
		}
		eligible++
		if c.IsCompleted {
			completed++
		}
	}
	if eligible == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(eligible) * 100))
}

// AllCompleted reports whether every cell (free space included) is complete.
func AllCompleted(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsCompleted {
			return false
		}
	}
	return true
}

// Classify decides which single event a completing transition emits, given
// the board's goal set before and after the flip. Priority: board completion
// outranks a new BINGO, which outranks a plain completion. Keeping the
// dispatch in one place guarantees exactly one event per transition.
func Classify(pre, post []Cell, size int) Kind {
	if AllCompleted(post) {
		return BoardCompleted
	}
	if HasBingo(post, size) && !HasBingo(pre, size) {
		return Bingo
	}
	return GoalCompleted
}
