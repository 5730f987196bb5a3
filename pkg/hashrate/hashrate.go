// Package hashrate formats and parses hashes-per-second values.
package hashrate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// units is the unit ladder, each step a factor of 1000.
var units = [...]string{"H/s", "kH/s", "MH/s", "GH/s", "TH/s", "PH/s", "EH/s", "ZH/s", "YH/s"}

var unitPattern = regexp.MustCompile(`(?i)([-+]?[0-9]*\.?[0-9]+)\s*([kMGTPEZY]?H)/s`)

// Scaled is a hashrate expressed in one of the H/s to YH/s units.
type Scaled struct {
	Value float64
	Unit  string
	Human string
}

// Format scales hps down by 1000 until it is below 1000 or the largest unit
// is reached. Negative or non-finite input is treated as 0.
func Format(hps float64) Scaled {
	if hps < 0 || math.IsNaN(hps) || math.IsInf(hps, 0) {
		hps = 0
	}
	idx := 0
	for hps >= 1000 && idx < len(units)-1 {
		hps /= 1000
		idx++
	}
	return Scaled{
		Value: hps,
		Unit:  units[idx],
		Human: fmt.Sprintf("%.3f %s", hps, units[idx]),
	}
}

// ParseString extracts a hashrate such as "12.5 MH/s" from s and returns it
// in H/s. The boolean is false when s carries no recognisable unit.
func ParseString(s string) (float64, bool) {
	m := unitPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	tier := unitTier(strings.ToUpper(m[2]))
	return v * math.Pow10(3*tier), true
}

func unitTier(prefix string) int {
	for i, u := range units {
		if strings.EqualFold(strings.TrimSuffix(u, "/s"), prefix) {
			return i
		}
	}
	return 0
}
