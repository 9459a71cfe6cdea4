//go:build !gocv

package segment

import "image"

func findBoxes(mask *image.Gray, cfg Config) ([]Box, error) {
	contours := TraceContours(mask)
	boxes := make([]Box, 0, len(contours))
	for _, c := range contours {
		boxes = append(boxes, BoundingBox(ApproxPolygon(c.Points, cfg.Epsilon)))
	}
	return boxes, nil
}
