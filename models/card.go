package models

import "strconv"

// FreeNumber is the sentinel stored in the centre cell of every card. It is
// outside all column ranges so it can never collide with a drawn number.
const FreeNumber = 0

// CardRows is the number of cells per column.
const CardRows = 5

// ColumnLabels are the B-I-N-G-O column headers, in column order.
var ColumnLabels = [5]string{"B", "I", "N", "G", "O"}

// Card is a 5x5 bingo card stored column-wise. Each column holds 5 numbers
// from its declared range; N[2] is always FreeNumber.
type Card struct {
	Index int   `json:"index"`
	B     []int `json:"B"`
	I     []int `json:"I"`
	N     []int `json:"N"`
	G     []int `json:"G"`
	O     []int `json:"O"`
}

// Columns returns the card's columns in B-I-N-G-O order.
func (c Card) Columns() [][]int {
	return [][]int{c.B, c.I, c.N, c.G, c.O}
}

// DrawToken formats a called value as its column label followed by the
// number, e.g. "B7" or "O75".
func DrawToken(label string, number int) string {
	return label + strconv.Itoa(number)
}
