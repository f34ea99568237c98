package exporter

import (
	"strconv"

	"molidata/pkg/contracts/domain"
)

// formatFloat formats a value with exactly decimals places, so 13.4 is written
// as 13.40 when decimals is 2. A negative decimals keeps the shortest
// representation.
func formatFloat(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// formatNullFloat formats a present value like formatFloat and an absent one as an empty cell
func formatNullFloat(n domain.NullFloat, decimals int) string {
	if !n.Valid {
		return ""
	}
	return formatFloat(n.Float64, decimals)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
