// Package identity assigns a stable visual marker style to each user so a
// user's trajectory looks the same across reconnects and across viewers.
package identity

// Marker pools. Colors match the leaflet color-marker set the frontend
// renders with; icons are indexes into its icon sprite pool.
var markerColors = []string{
	"blue", "green", "orange", "yellow", "violet", "grey", "red",
}

const iconPoolSize = 5

// MarkerStyle is a deterministic visual identity for one user.
type MarkerStyle struct {
	ColorIndex int    `json:"color_index"`
	IconIndex  int    `json:"icon_index"`
	Color      string `json:"color"`
}

// AssignStyle maps a user ID to a marker style by summing the ID's Unicode
// code points. The same ID always yields the same style; no randomness, no
// external state. An empty ID maps to index 0.
func AssignStyle(userID string) MarkerStyle {
	sum := 0
	for _, r := range userID {
		sum += int(r)
	}
	return MarkerStyle{
		ColorIndex: sum % len(markerColors),
		IconIndex:  sum % iconPoolSize,
		Color:      markerColors[sum%len(markerColors)],
	}
}

// PaletteSize returns the number of distinct marker colors.
func PaletteSize() int {
	return len(markerColors)
}
