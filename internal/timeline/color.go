package timeline

// Color is a light/mid/dark triple for one timeline.
type Color struct {
	Light string `json:"light"`
	Mid   string `json:"mid"`
	Dark  string `json:"dark"`
}

// Palette is the fixed, ordered set of timeline colors.
var Palette = [...]Color{
	{Light: "#c6dbef", Mid: "#6baed6", Dark: "#2171b5"}, // blue
	{Light: "#fdd0a2", Mid: "#fd8d3c", Dark: "#d94801"}, // orange
	{Light: "#c7e9c0", Mid: "#74c476", Dark: "#238b45"}, // green
	{Light: "#dadaeb", Mid: "#9e9ac8", Dark: "#6a51a3"}, // purple
	{Light: "#fcbba1", Mid: "#fb6a4a", Dark: "#cb181d"}, // red
}

// Neutral is used for keys that are not in the index.
var Neutral = Color{Light: "#ccc", Mid: "#888", Dark: "#555"}

// ColorAt returns the palette entry for a position in the index.
func ColorAt(pos int) Color {
	if pos < 0 {
		return Neutral
	}
	return Palette[pos%len(Palette)]
}

// ColorFor returns the color for key based only on its position in index.
func ColorFor(key string, index []string) Color {
	return ColorAt(Position(index, key))
}

// Assign maps every key in index to its color.
func Assign(index []string) map[string]Color {
	colors := make(map[string]Color, len(index))
	for i, key := range index {
		colors[key] = ColorAt(i)
	}
	return colors
}
