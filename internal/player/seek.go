package player

import (
	"math"

	"github.com/desertthunder/jukebox/internal/models"
)

// SeekPosition maps a click offsetX on a seek bar width units wide to (offsetX/width)*duration,
// clamped to [0, duration]. It reports false when width is not positive or duration is unknown.
func SeekPosition(offsetX, width, duration float64) (float64, bool) {
	if width <= 0 || math.IsNaN(offsetX) || !models.Known(duration) {
		return 0, false
	}
	pos := offsetX / width * duration
	return math.Max(0, math.Min(pos, duration)), true
}
