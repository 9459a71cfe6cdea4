package segment

// FilterOuter drops every box that lies inside another box and returns the
// rest in their original order.
//
// A box is inside another when both its top-left and bottom-right corners
// fall within the other box, boundary included. Coordinate-identical boxes
// enclose each other; of such a group only the first in input order is
// kept.
func FilterOuter(boxes []Box) []Box {
	out := make([]Box, 0, len(boxes))
	for i, b := range boxes {
		if !interior(boxes, i) {
			out = append(out, b)
		}
	}
	return out
}

func interior(boxes []Box, i int) bool {
	for j, other := range boxes {
		if i == j || !other.Encloses(boxes[i]) {
			continue
		}
		// Mutual containment: the later duplicate yields.
		if boxes[i].Encloses(other) && i < j {
			continue
		}
		return true
	}
	return false
}
