package fusion

// associatePoints tests every projected point against every detection box
// and accumulates per-box coordinate sums, counts, and point subsets. The
// containment test is inclusive on all four edges. A point inside several
// overlapping boxes is accumulated into each of them independently; no
// exclusivity is enforced. The returned matched slice holds one entry per
// (point, box) match, in match order, for drawing the overlay.
func associatePoints(projected []ProjectedPoint, boxes []Detection) ([]boxAccumulator, []ProjectedPoint) {
	accs := make([]boxAccumulator, len(boxes))
	for i, b := range boxes {
		accs[i].box = b
	}

	var matched []ProjectedPoint
	for _, pt := range projected {
		for i := range accs {
			if !accs[i].box.Contains(pt.U, pt.V) {
				continue
			}
			matched = append(matched, pt)
			accs[i].sumX += pt.Point.X
			accs[i].sumY += pt.Point.Y
			accs[i].sumZ += pt.Point.Z
			accs[i].count++
			accs[i].points = append(accs[i].points, pt)
		}
	}
	return accs, matched
}
