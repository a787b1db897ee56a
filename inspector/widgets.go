package inspector

import (
	"fmt"
	"math"
	"strings"
)

// Label renders a formatted value.
func Label(name, value string) string {
	return name + ": " + value
}

// Bar renders a horizontal progress bar of the given width in characters.
func Bar(name string, value, maxVal float32, width int) string {
	ratio := value / maxVal
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 || ratio != ratio {
		ratio = 0
	}

	fill := int(math.Round(float64(ratio) * float64(width)))
	return fmt.Sprintf("%-12s [%s%s] %.2f", name, strings.Repeat("#", fill), strings.Repeat(".", width-fill), value)
}

// Angle renders a heading in degrees with a compass arrow.
func Angle(name string, radians float32) string {
	deg := math.Mod(float64(radians)*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	arrows := []string{"→", "↗", "↑", "↖", "←", "↙", "↓", "↘"}
	arrow := arrows[int(math.Round(deg/45))%len(arrows)]
	return fmt.Sprintf("%s: %s %.0f°", name, arrow, deg)
}

// Bool renders an on/off indicator.
func Bool(name string, value bool) string {
	if value {
		return fmt.Sprintf("%s: [x]", name)
	}
	return fmt.Sprintf("%s: [ ]", name)
}
