// Package format renders domain numbers for operator-facing readouts.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Count renders n compactly: millions as "1.5M", thousands as "1.0K", anything
// smaller as the plain number. Values are expected to be non-negative.
func Count(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	switch {
	case n >= 1_000_000:
		return oneDecimal(n/1_000_000) + "M"
	case n >= 1_000:
		return oneDecimal(n/1_000) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Percent renders a ratio already expressed in percent, e.g. "87.5%".
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// half-up rounding to one decimal place
func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// Duration renders d as mm:ss, or h:mm:ss from one hour on. Negative input is 0.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d / time.Second)
	h, m, s := sec/3600, sec/60%60, sec%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
