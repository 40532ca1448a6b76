package domain

import "github.com/shopspring/decimal"

// RoundMoney rounds to cents, half away from zero
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DailyRate spreads an allocation evenly across an inclusive day count
func DailyRate(allocated decimal.Decimal, inclusiveDays int) decimal.Decimal {
	if inclusiveDays <= 0 {
		return decimal.Zero
	}
	return RoundMoney(allocated.Div(decimal.NewFromInt(int64(inclusiveDays))))
}

// ProportionalExpense is the share of a budget entry falling in overlapDays days
func ProportionalExpense(dailyRate decimal.Decimal, overlapDays int) decimal.Decimal {
	if overlapDays <= 0 {
		return decimal.Zero
	}
	return RoundMoney(dailyRate.Mul(decimal.NewFromInt(int64(overlapDays))))
}

// RoundWeight rounds kilograms to the two decimals the schema stores, so a
// load count is always computed from the persisted value
func RoundWeight(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LoadsFor converts a weight into machine loads, rounding any partial load up
func LoadsFor(weight, weightPerLoad decimal.Decimal) int {
	if !weightPerLoad.IsPositive() || !weight.IsPositive() {
		return 0
	}
	return int(weight.Div(weightPerLoad).Ceil().IntPart())
}

// LineAmount is price × quantity, rounded to cents
func LineAmount(price decimal.Decimal, quantity int) decimal.Decimal {
	return RoundMoney(price.Mul(decimal.NewFromInt(int64(quantity))))
}
