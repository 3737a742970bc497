package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rank is the display tier a user reaches through accumulated plan power.
type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
)

// hourlyRatePerKw is the base monetary rate: 1.50 currency units per kW per hour.
var hourlyRatePerKw = decimal.RequireFromString("1.50")

var secondsPerHour = decimal.NewFromInt(3600)

// bonusTier pairs an inclusive power threshold with its multiplier and rank.
type bonusTier struct {
	minPowerKw decimal.Decimal
	multiplier decimal.Decimal
	rank       Rank
}

// bonusTiers is ordered highest threshold first; the first matching tier wins.
// Thresholds are inclusive lower bounds, no interpolation between tiers.
var bonusTiers = []bonusTier{
	{decimal.NewFromInt(100), decimal.RequireFromString("1.20"), RankDiamond},
	{decimal.NewFromInt(50), decimal.RequireFromString("1.15"), RankPlatinum},
	{decimal.NewFromInt(25), decimal.RequireFromString("1.10"), RankGold},
	{decimal.NewFromInt(10), decimal.RequireFromString("1.05"), RankSilver},
	{decimal.Zero, decimal.RequireFromString("1.00"), RankBronze},
}

// Accrual is the computed result of one connected-time interval.
type Accrual struct {
	EarnedAmount    decimal.Decimal
	EnergyProduced  decimal.Decimal
	TotalPowerKw    decimal.Decimal
	BonusMultiplier decimal.Decimal
	Rank            Rank
}

// BonusPercent renders the bonus multiplier for display, e.g. "15%".
func (a Accrual) BonusPercent() string {
	pct := a.BonusMultiplier.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("%s%%", pct.Round(0))
}

// BonusFor returns the multiplier and rank for a given total power.
func BonusFor(totalPowerKw decimal.Decimal) (decimal.Decimal, Rank) {
	for _, tier := range bonusTiers {
		if totalPowerKw.GreaterThanOrEqual(tier.minPowerKw) {
			return tier.multiplier, tier.rank
		}
	}
	// Unreachable for non-negative power; the zero tier matches everything else.
	return decimal.RequireFromString("1.00"), RankBronze
}

// ComputeAccrual converts elapsed connected seconds into balance and energy
// increments for the given set of active plans. A plan owned twice is passed
// twice and contributes its power twice. The function is pure: an empty plan
// set or zero elapsed time yields zero increments, never an error.
//
// earned = totalPowerKw * 1.50 * bonus * seconds / 3600
// energy = totalPowerKw * seconds / 3600 (the bonus does not apply to energy)
//
// All arithmetic is decimal; division carries the library's 16-digit
// precision so per-second increments do not lose value when summed.
func ComputeAccrual(activePlans []Plan, elapsedSeconds int64) Accrual {
	totalPower := decimal.Zero
	for _, p := range activePlans {
		totalPower = totalPower.Add(p.PowerKw)
	}

	multiplier, rank := BonusFor(totalPower)

	secs := decimal.NewFromInt(elapsedSeconds)
	earned := totalPower.Mul(hourlyRatePerKw).Mul(multiplier).Mul(secs).Div(secondsPerHour)
	energy := totalPower.Mul(secs).Div(secondsPerHour)

	return Accrual{
		EarnedAmount:    earned,
		EnergyProduced:  energy,
		TotalPowerKw:    totalPower,
		BonusMultiplier: multiplier,
		Rank:            rank,
	}
}
