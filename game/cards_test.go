package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yebeniyam/bingo/models"
)

func TestGenerateCard(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		card := GenerateCard(i, rng)
		require.Equal(t, i, card.Index)

		for col, values := range card.Columns() {
			cr := columnRanges[col]
			require.Len(t, values, models.CardRows)

			seen := make(map[int]bool)
			for row, v := range values {
				if col == 2 && row == 2 {
					assert.Equal(t, models.FreeNumber, v, "centre cell must be the free marker")
					continue
				}
				assert.GreaterOrEqual(t, v, cr.Low, "column %s", cr.Label)
				assert.LessOrEqual(t, v, cr.High, "column %s", cr.Label)
				assert.False(t, seen[v], "duplicate %d in column %s", v, cr.Label)
				seen[v] = true
			}
		}
	}
}

func TestGenerateCardPool(t *testing.T) {
	pool := GenerateCardPool(20)
	require.Len(t, pool, 20)
	for i, card := range pool {
		assert.Equal(t, i, card.Index)
		assert.Equal(t, models.FreeNumber, card.N[2])
	}
}

func TestDrawNext(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	drawn := make(map[string]bool)

	for i := 0; i < TotalNumbers; i++ {
		token, ok := DrawNext(drawn, rng)
		require.True(t, ok, "draw %d should succeed", i+1)
		require.False(t, drawn[token], "token %s re-emitted", token)
		drawn[token] = true
	}

	require.Len(t, drawn, TotalNumbers)

	// Every possible token appeared exactly once.
	for _, cr := range columnRanges {
		for n := cr.Low; n <= cr.High; n++ {
			assert.True(t, drawn[models.DrawToken(cr.Label, n)], "missing %s%d", cr.Label, n)
		}
	}

	_, ok := DrawNext(drawn, rng)
	assert.False(t, ok, "exhausted source must report no more draws")
}
