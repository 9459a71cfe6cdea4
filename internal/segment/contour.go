package segment

import (
	"image"
	"math"
)

// Contour is the closed border of one connected ink component or of one
// hole inside a component.
type Contour struct {
	// Points are the border pixels in tracing order.
	Points []image.Point

	// Hole is true for the border around a background region enclosed by
	// ink.
	Hole bool

	// Parent is the index of the enclosing contour in the slice returned by
	// TraceContours, or -1 for a top-level outer border.
	Parent int
}

// TraceContours finds every border in a mask, outer borders and hole borders
// alike, using Suzuki-Abe border following with 8-connected ink.
//
// Any nonzero pixel is ink. Contours are returned in the raster order of
// their starting pixel, so an outer border always precedes the holes inside
// it. Parent links form the contour tree.
func TraceContours(mask *image.Gray) []Contour {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	// One pixel of background around the mask keeps every neighbor lookup
	// in range.
	stride := w + 2
	labels := make([]int32, stride*(h+2))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y != 0 {
				labels[(y+1)*stride+x+1] = 1
			}
		}
	}

	t := &tracer{labels: labels, stride: stride}
	t.offsets = [8]int{1, stride + 1, stride, stride - 1, -1, -stride - 1, -stride, -stride + 1}

	// Border number 1 is the frame, which counts as a hole border.
	holeByNBD := []bool{false, true}
	contourByNBD := []int{-1, -1}
	parentByNBD := []int{-1, -1}

	var contours []Contour
	nbd := int32(1)
	for y := 1; y <= h; y++ {
		lnbd := int32(1)
		for x := 1; x <= w; x++ {
			p := y*stride + x
			v := labels[p]
			if v == 0 {
				continue
			}

			var from int
			var hole bool
			switch {
			case v == 1 && labels[p-1] == 0:
				from = p - 1
			case v >= 1 && labels[p+1] == 0:
				from = p + 1
				hole = true
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs32(v)
				}
				continue
			}

			nbd++
			parent := contourByNBD[lnbd]
			if holeByNBD[lnbd] == hole {
				parent = parentByNBD[lnbd]
			}

			idx := len(contours)
			contours = append(contours, Contour{
				Points: t.follow(p, from, nbd),
				Hole:   hole,
				Parent: parent,
			})
			holeByNBD = append(holeByNBD, hole)
			contourByNBD = append(contourByNBD, idx)
			parentByNBD = append(parentByNBD, parent)

			if labels[p] != 1 {
				lnbd = abs32(labels[p])
			}
		}
	}

	return contours
}

type tracer struct {
	labels  []int32
	stride  int
	offsets [8]int // E, SE, S, SW, W, NW, N, NE: clockwise with y down
}

// follow traces one border starting at start, entering from the background
// neighbor from, and labels it with nbd.
func (t *tracer) follow(start, from int, nbd int32) []image.Point {
	pts := []image.Point{t.point(start)}

	// Clockwise from the entry neighbor for the first ink pixel.
	d := t.direction(start, from)
	first := -1
	for k := 0; k < 8; k++ {
		q := start + t.offsets[(d+k)%8]
		if t.labels[q] != 0 {
			first = q
			break
		}
	}
	if first < 0 {
		t.labels[start] = -nbd
		return pts
	}

	prev, cur := first, start
	for {
		// Counterclockwise around cur, starting just after prev.
		d0 := t.direction(cur, prev)
		eastClear := false
		next := prev
		for k := 1; k <= 8; k++ {
			dk := (d0 - k + 8) % 8
			q := cur + t.offsets[dk]
			if t.labels[q] != 0 {
				next = q
				break
			}
			if dk == 0 {
				eastClear = true
			}
		}

		if eastClear {
			t.labels[cur] = -nbd
		} else if t.labels[cur] == 1 {
			t.labels[cur] = nbd
		}

		if next == start && cur == first {
			return pts
		}
		prev, cur = cur, next
		pts = append(pts, t.point(cur))
	}
}

func (t *tracer) direction(center, neighbor int) int {
	delta := neighbor - center
	for i, off := range t.offsets {
		if off == delta {
			return i
		}
	}
	return 0
}

func (t *tracer) point(idx int) image.Point {
	return image.Pt(idx%t.stride-1, idx/t.stride-1)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. Every vertex of the result is a point of the input and no
// input point lies farther than epsilon from the simplified outline.
//
// Contours with fewer than three points, or a non-positive epsilon, are
// returned unchanged.
func ApproxPolygon(points []image.Point, epsilon float64) []image.Point {
	n := len(points)
	if n < 3 || epsilon <= 0 {
		out := make([]image.Point, n)
		copy(out, points)
		return out
	}

	// Split the ring at the point farthest from the first one and simplify
	// both halves as open chains.
	far, best := 0, -1
	for i, p := range points {
		dx, dy := p.X-points[0].X, p.Y-points[0].Y
		if d := dx*dx + dy*dy; d > best {
			far, best = i, d
		}
	}
	if best == 0 {
		return []image.Point{points[0]}
	}

	ring := make([]image.Point, n+1)
	copy(ring, points)
	ring[n] = points[0]

	keep := make([]bool, n+1)
	keep[0], keep[far] = true, true
	simplify(ring, 0, far, epsilon, keep)
	simplify(ring, far, n, epsilon, keep)

	out := make([]image.Point, 0, 8)
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, points[i])
		}
	}
	return out
}

func simplify(pts []image.Point, lo, hi int, epsilon float64, keep []bool) {
	stack := [][2]int{{lo, hi}}
	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b := seg[0], seg[1]
		if b-a < 2 {
			continue
		}

		maxDist, idx := -1.0, -1
		for i := a + 1; i < b; i++ {
			if d := segmentDistance(pts[i], pts[a], pts[b]); d > maxDist {
				maxDist, idx = d, i
			}
		}
		if maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, [2]int{a, idx}, [2]int{idx, b})
		}
	}
}

// segmentDistance is the distance from p to the line through a and b, or to
// a itself when a and b coincide.
func segmentDistance(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px, py)
	}
	return math.Abs(dx*py-dy*px) / length
}

// BoundingBox returns the smallest Box covering every point.
func BoundingBox(points []image.Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}
