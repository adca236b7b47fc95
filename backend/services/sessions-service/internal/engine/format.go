package engine

import (
	"fmt"
	"math"
)

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "₹"

// FormatDuration renders seconds as HH:MM:SS. Hours are not wrapped.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatCost renders an amount with exactly two decimals.
func FormatCost(amount float64) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol, amount)
}

// EstimatedMinutesToFull approximates the remaining charge time at 0.8 minutes per percent.
func EstimatedMinutesToFull(battery int) int {
	return int(math.Round(float64(MaxBattery-clampBattery(battery)) * 0.8))
}

// ChargingLabel is the status line shown next to the battery gauge.
func ChargingLabel(status Status, battery int) string {
	switch {
	case status != StatusActive:
		return "Session Ended"
	case battery >= 95:
		return "Almost Fully Charged"
	case battery >= 80:
		return "Charging Rapidly"
	default:
		return "Charging..."
	}
}
