package game

import "github.com/shopspring/decimal"

// prizePoolShare is the distributable fraction of the pot; the remainder is
// the house share and is not modeled further.
var prizePoolShare = decimal.RequireFromString("0.8")

// PrizePool returns the distributable share of the pot.
func PrizePool(pot decimal.Decimal) decimal.Decimal {
	return pot.Mul(prizePoolShare)
}

// PrizePerWinner splits the prize pool evenly. Zero winners yields zero and
// no distribution.
func PrizePerWinner(pot decimal.Decimal, winners int) decimal.Decimal {
	if winners == 0 {
		return decimal.Zero
	}
	return PrizePool(pot).Div(decimal.NewFromInt(int64(winners)))
}
