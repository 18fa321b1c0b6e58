package services

import (
	"fmt"

	"github.com/temcen/teapick/pkg/models"
)

// UnknownDistance is the label used when an item has no usable distance.
const UnknownDistance = "unknown"

// FormatDistance renders meters as "<int> m" below one kilometer and as
// "<x.y> km" from there on.
func FormatDistance(d *float64) string {
	if d == nil || *d < 0 {
		return UnknownDistance
	}
	if *d < 1000 {
		return fmt.Sprintf("%d m", int(*d))
	}
	return fmt.Sprintf("%.1f km", *d/1000)
}

// ItemDistanceLabel formats the distance of item.
func ItemDistanceLabel(item models.Item) string {
	return FormatDistance(item.Distance)
}
