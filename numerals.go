package mangler

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// tweakNum perturbs val by a uniform offset in [-maxTweak, maxTweak] and
// renders the result as a PDF numeral of exactly width bytes, so the
// rewritten operand can replace the original in place without shifting the
// rest of the stream. The layout (sign slot, integer digits, fractional
// precision) is derived from the original value and width; the perturbed
// value is clamped so it cannot gain an integer digit or cross zero into a
// wider rendering. Returns ok=false when no valid numeral fits the width,
// in which case the caller keeps the original bytes.
func tweakNum(rng *rand.Rand, val, maxTweak float64, width int) ([]byte, bool) {
	if width <= 0 || math.IsNaN(val) || math.Abs(val) >= 1e15 {
		return nil, false
	}

	sign := 0
	if val < 0 {
		sign = 1
	}
	intLen := len(strconv.FormatInt(int64(math.Abs(val)), 10))
	decimals := width - sign - intLen - 1

	v := val + (rng.Float64()*2-1)*maxTweak

	var out string
	switch {
	case decimals > 0:
		// Fractional form: zero-padding absorbs slack so short values
		// like 0.5 in a 7-byte field render as "00.5000".
		magLimit := math.Pow(10, float64(intLen)) - math.Pow(10, float64(-decimals))
		v = clampSign(v, val, magLimit)
		out = fmt.Sprintf("%0*.*f", width, decimals, v)
	case decimals == 0:
		// Trailing-point form, e.g. "42." stays three bytes. The whole
		// digit limit keeps rounding from carrying into an extra digit.
		magLimit := math.Pow(10, float64(intLen)) - 1
		v = clampSign(v, val, magLimit)
		out = fmt.Sprintf("%0*.0f", width-1, v) + "."
	default:
		// Integer form. A parsed numeral always satisfies
		// intLen == width-sign; anything else cannot be rendered.
		if intLen != width-sign {
			return nil, false
		}
		magLimit := math.Pow(10, float64(intLen)) - 1
		v = clampSign(v, val, magLimit)
		out = fmt.Sprintf("%0*d", width, int64(math.Round(v)))
	}

	if len(out) != width {
		return nil, false
	}
	return []byte(out), true
}

// clampSign bounds v to [0, limit] or [-limit, 0] so the perturbed value
// keeps the sign slot of the original.
func clampSign(v, orig, limit float64) float64 {
	if orig < 0 {
		return math.Min(math.Max(v, -limit), 0)
	}
	return math.Max(math.Min(v, limit), 0)
}
