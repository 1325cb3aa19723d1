package game

import (
	"math/rand"
	"time"

	"github.com/yebeniyam/bingo/models"
)

type columnRange struct {
	Label string
	Low   int
	High  int
}

var columnRanges = [5]columnRange{
	{"B", 1, 15},
	{"I", 16, 30},
	{"N", 31, 45},
	{"G", 46, 60},
	{"O", 61, 75},
}

// TotalNumbers is how many distinct values exist across all ranges.
const TotalNumbers = 75

// GenerateCard builds one randomized card: a shuffled pick of 5 values per
// column range, with the centre of the N column forced to the free marker.
func GenerateCard(index int, rng *rand.Rand) models.Card {
	cols := make([][]int, len(columnRanges))
	for i, cr := range columnRanges {
		span := cr.High - cr.Low + 1
		perm := rng.Perm(span)
		col := make([]int, models.CardRows)
		for row := 0; row < models.CardRows; row++ {
			col[row] = cr.Low + perm[row]
		}
		cols[i] = col
	}
	cols[2][2] = models.FreeNumber

	return models.Card{Index: index, B: cols[0], I: cols[1], N: cols[2], G: cols[3], O: cols[4]}
}

// GenerateCardPool produces n independently generated cards. Cards are not
// deduplicated across the pool.
func GenerateCardPool(n int) []models.Card {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = GenerateCard(i, rng)
	}
	return cards
}

// DrawNext picks a uniformly random non-exhausted column range, then a
// uniformly random undrawn value inside it. Returns ok=false once all 75
// values are drawn. Tokens already in drawn are never re-emitted.
func DrawNext(drawn map[string]bool, rng *rand.Rand) (string, bool) {
	type open struct {
		label  string
		values []int
	}
	var openRanges []open
	for _, cr := range columnRanges {
		var undrawn []int
		for n := cr.Low; n <= cr.High; n++ {
			if !drawn[models.DrawToken(cr.Label, n)] {
				undrawn = append(undrawn, n)
			}
		}
		if len(undrawn) > 0 {
			openRanges = append(openRanges, open{cr.Label, undrawn})
		}
	}
	if len(openRanges) == 0 {
		return "", false
	}

	pick := openRanges[rng.Intn(len(openRanges))]
	value := pick.values[rng.Intn(len(pick.values))]
	return models.DrawToken(pick.label, value), true
}
