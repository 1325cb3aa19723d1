package game

import "github.com/yebeniyam/bingo/models"

// HasBingo reports whether the card has a complete row, column or diagonal
// against the drawn set. The free centre cell always counts as marked. Pure
// function of its inputs so the loop's timing never affects verdicts.
func HasBingo(card models.Card, drawn map[string]bool) bool {
	cols := card.Columns()

	marked := func(col, row int) bool {
		if col == 2 && row == 2 {
			return true
		}
		return drawn[models.DrawToken(models.ColumnLabels[col], cols[col][row])]
	}

	line := func(cells [][2]int) bool {
		for _, cell := range cells {
			if !marked(cell[0], cell[1]) {
				return false
			}
		}
		return true
	}

	// Rows
	for row := 0; row < models.CardRows; row++ {
		cells := make([][2]int, 0, 5)
		for col := 0; col < 5; col++ {
			cells = append(cells, [2]int{col, row})
		}
		if line(cells) {
			return true
		}
	}

	// Columns
	for col := 0; col < 5; col++ {
		cells := make([][2]int, 0, 5)
		for row := 0; row < models.CardRows; row++ {
			cells = append(cells, [2]int{col, row})
		}
		if line(cells) {
			return true
		}
	}

	// Diagonals
	diag1 := make([][2]int, 0, 5)
	diag2 := make([][2]int, 0, 5)
	for i := 0; i < 5; i++ {
		diag1 = append(diag1, [2]int{i, i})
		diag2 = append(diag2, [2]int{i, 4 - i})
	}
	return line(diag1) || line(diag2)
}
