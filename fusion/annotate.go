package fusion

import (
	"image"

	"github.com/fogleman/gg"
)

// Overlay marker: filled red circle, radius 5 px.
const markerRadius = 5.0

// drawMatchedPoints renders a filled circle at every projected point that
// matched at least one detection box. With nothing to draw the input image
// is returned as-is. The matched slice may contain the same pixel more than
// once when boxes overlap; it is simply drawn again.
func drawMatchedPoints(img image.Image, matched []ProjectedPoint) (image.Image, error) {
	if img == nil {
		return nil, ErrImageUndrawable
	}
	if len(matched) == 0 {
		return img, nil
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB255(255, 0, 0)
	for _, pt := range matched {
		dc.DrawCircle(float64(pt.U), float64(pt.V), markerRadius)
		dc.Fill()
	}
	return dc.Image(), nil
}
