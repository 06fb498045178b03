package dashboard

// Sequential scales, light to dark.
var (
	greens = []string{"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"}
	blues  = []string{"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"}
)

// Qualitative palette for one colour per compared team.
var pastel = []string{"#66c5cc", "#f6cf71", "#f89c74", "#dcb0f2", "#87c55f", "#9eb9f3", "#fe88b1", "#c9db74", "#8be0a4", "#b497e7", "#b3b3b3"}

const (
	lineGoalsFor  = "#006633"
	lineWins      = "#003366"
	histogramFill = "#006699"
	highestFill   = "#0099cc"
	lowestFill    = "#ff6666"
)

func metricStyle(m Metric) (scale []string, line string) {
	if m.Column == metricWins.Column {
		return blues, lineWins
	}
	return greens, lineGoalsFor
}

// shade maps v within [lo, hi] onto scale. The lightest steps are skipped so small
// values stay visible on a white background.
func shade(scale []string, v, lo, hi float64) string {
	const skip = 2
	usable := scale[skip:]
	if hi <= lo {
		return usable[len(usable)-1]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(usable)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(usable) {
		idx = len(usable) - 1
	}
	return usable[idx]
}

func teamColor(i int) string {
	return pastel[i%len(pastel)]
}
