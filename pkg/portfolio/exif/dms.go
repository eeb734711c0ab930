package exif

import (
	"math"
	"strings"
)

// ConvertDMS converts a degrees/minutes/seconds triple to decimal degrees.
// References "S" and "W" give negative values. It reports false unless dms
// has exactly three finite components.
func ConvertDMS(dms []float64, ref string) (float64, bool) {
	if len(dms) != 3 {
		return 0, false
	}
	dd := dms[0] + dms[1]/60 + dms[2]/3600
	if math.IsNaN(dd) || math.IsInf(dd, 0) {
		return 0, false
	}
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		dd = -dd
	}
	return dd, true
}
