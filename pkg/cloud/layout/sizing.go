package layout

import "math"

// FontSize maps a weight to a pixel size:
//
//	round(MaxFontSize * (weight/maxWeight)^RelativeScaling)
//
// clamped to [MinFontSize, MaxFontSize]. Size depends on weight alone, so
// words of equal weight always get equal sizes. With RelativeScaling 0
// every word gets MaxFontSize.
func FontSize(weight, maxWeight float64, c Config) int {
	if maxWeight <= 0 || weight >= maxWeight {
		return c.MaxFontSize
	}
	size := float64(c.MaxFontSize) * math.Pow(weight/maxWeight, c.RelativeScaling)
	return max(c.MinFontSize, min(int(math.Round(size)), c.MaxFontSize))
}
