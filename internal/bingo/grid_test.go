package bingo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(size int, completed ...int) []Cell {
	set := make(map[int]bool, len(completed))
	for _, p := range completed {
		set[p] = true
	}
	cells := make([]Cell, size*size)
	for i := range cells {
		cells[i] = Cell{Position: i, IsCompleted: set[i]}
	}
	return cells
}

func TestHasBingoRows(t *testing.T) {
	assert.True(t, HasBingo(grid(3, 0, 1, 2), 3))
	assert.True(t, HasBingo(grid(3, 3, 4, 5), 3))
	assert.False(t, HasBingo(grid(3, 0, 1), 3))
	assert.True(t, HasBingo(grid(5, 0, 1, 2, 3, 4), 5))
}

func TestHasBingoColumns(t *testing.T) {
	assert.True(t, HasBingo(grid(3, 0, 3, 6), 3))
	assert.True(t, HasBingo(grid(5, 2, 7, 12, 17, 22), 5))
	assert.False(t, HasBingo(grid(5, 2, 7, 12, 17), 5))
}

func TestHasBingoDiagonals(t *testing.T) {
	assert.True(t, HasBingo(grid(3, 0, 4, 8), 3))
	assert.True(t, HasBingo(grid(3, 2, 4, 6), 3))
	assert.True(t, HasBingo(grid(5, 0, 6, 12, 18, 24), 5))
	assert.True(t, HasBingo(grid(5, 4, 8, 12, 16, 20), 5))
	assert.False(t, HasBingo(grid(5, 0, 6, 12, 18), 5))
}

// Property: HasBingo agrees with a brute-force subset check on random grids.
func TestHasBingoProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{3, 5, 7} {
		for trial := 0; trial < 200; trial++ {
			var completed []int
			for p := 0; p < size*size; p++ {
				if rng.Intn(2) == 0 {
					completed = append(completed, p)
				}
			}
			cells := grid(size, completed...)
			set := make(map[int]bool)
			for _, p := range completed {
				set[p] = true
			}

			expected := false
			for r := 0; r < size && !expected; r++ {
				full := true
				for c := 0; c < size; c++ {
					if !set[r*size+c] {
						full = false
					}
				}
				expected = expected || full
			}
			for c := 0; c < size && !expected; c++ {
				full := true
				for r := 0; r < size; r++ {
					if !set[r*size+c] {
						full = false
					}
				}
				expected = expected || full
			}
			diag, anti := true, true
			for i := 0; i < size; i++ {
				if !set[i*size+i] {
					diag = false
				}
				if !set[i*size+(size-1-i)] {
					anti = false
				}
			}
			expected = expected || diag || anti

			require.Equal(t, expected, HasBingo(cells, size),
				"size=%d completed=%v", size, completed)
		}
	}
}

func TestCompletionPercent(t *testing.T) {
	cells := grid(3)
	assert.Equal(t, 0, CompletionPercent(cells))

	// Free space is excluded from the denominator.
	cells[4].IsFreeSpace = true
	cells[4].IsCompleted = true
	assert.Equal(t, 0, CompletionPercent(cells))

	cells[0].IsCompleted = true
	cells[1].IsCompleted = true
	assert.Equal(t, 25, CompletionPercent(cells)) // 2 of 8

	for i := range cells {
		cells[i].IsCompleted = true
	}
	assert.Equal(t, 100, CompletionPercent(cells))
}

func TestCompletionPercentNoEligibleGoals(t *testing.T) {
	cells := []Cell{{Position: 0, IsFreeSpace: true, IsCompleted: true}}
	assert.Equal(t, 0, CompletionPercent(cells))
}

func TestCompletionPercentRounds(t *testing.T) {
	// 1 of 3 completed = 33.33 -> 33; 2 of 3 = 66.67 -> 67
	cells := []Cell{
		{Position: 0, IsCompleted: true},
		{Position: 1},
		{Position: 2},
	}
	assert.Equal(t, 33, CompletionPercent(cells))
	cells[1].IsCompleted = true
	assert.Equal(t, 67, CompletionPercent(cells))
}

func TestClassifyPriority(t *testing.T) {
	size := 3

	// Completing the last goal is always board_completed, even though it
	// also finishes a line.
	pre := grid(size, 0, 1, 2, 3, 4, 5, 6, 7)
	post := grid(size, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	assert.Equal(t, BoardCompleted, Classify(pre, post, size))

	// A new line that does not finish the board is a bingo.
	pre = grid(size, 0, 1)
	post = grid(size, 0, 1, 2)
	assert.Equal(t, Bingo, Classify(pre, post, size))

	// No new line: plain completion.
	pre = grid(size)
	post = grid(size, 4)
	assert.Equal(t, GoalCompleted, Classify(pre, post, size))

	// A second line while one already exists is not a new bingo.
	pre = grid(size, 0, 1, 2, 3, 4)
	post = grid(size, 0, 1, 2, 3, 4, 5)
	assert.Equal(t, GoalCompleted, Classify(pre, post, size))
}

func TestClassifyTopRowExample(t *testing.T) {
	// 5x5 board, free space at 12 already complete. Completing the top
	// row yields a bingo because the board is not fully complete.
	pre := grid(5, 0, 1, 2, 3, 12)
	pre[12].IsFreeSpace = true
	post := grid(5, 0, 1, 2, 3, 4, 12)
	post[12].IsFreeSpace = true
	assert.Equal(t, Bingo, Classify(pre, post, 5))
}
