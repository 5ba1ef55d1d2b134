package main

// SimplifyRing drops every vertex that lies on the straight line through its
// neighbours, including across the seam between the last and first vertex.
// The input is an open vertex sequence; so is the output.
func SimplifyRing(points []Point) []Point {
	simplified := make([]Point, 0, len(points))
	for _, p := range points {
		if len(simplified) > 0 && simplified[len(simplified)-1] == p {
			continue
		}
		for len(simplified) > 1 && orientation(simplified[len(simplified)-2], simplified[len(simplified)-1], p) == Collinear {
			simplified = simplified[:len(simplified)-1]
		}
		simplified = append(simplified, p)
	}

	// Seam: last vertex between the one before it and the first
	for len(simplified) > 2 {
		n := len(simplified)
		if orientation(simplified[n-2], simplified[n-1], simplified[0]) != Collinear {
			break
		}
		simplified = simplified[:n-1]
	}

	// Seam: first vertex between the last and the second
	for len(simplified) > 2 {
		n := len(simplified)
		if orientation(simplified[n-1], simplified[0], simplified[1]) != Collinear {
			break
		}
		simplified = simplified[1:]
	}

	return simplified
}
