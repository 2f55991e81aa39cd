package nodes

import "github.com/poiesic/docindex/core"

// Region pairs an element's page with its coordinate region.
type Region struct {
	Page        int
	Coordinates *core.Coordinates
}

// MergeRegions groups regions by page and computes one axis-aligned
// bounding box per page as [minX, minY, maxX, maxY] over all points in
// that group. Regions without points are ignored; the result is empty
// when no region carries points.
func MergeRegions(regions []Region) map[int][]float64 {
	merged := make(map[int][]float64)
	for _, region := range regions {
		if region.Coordinates == nil {
			continue
		}
		for _, point := range region.Coordinates.Points {
			if len(point) < 2 {
				continue
			}
			x, y := point[0], point[1]
			box, ok := merged[region.Page]
			if !ok {
				merged[region.Page] = []float64{x, y, x, y}
				continue
			}
			if x < box[0] {
				box[0] = x
			}
			if y < box[1] {
				box[1] = y
			}
			if x > box[2] {
				box[2] = x
			}
			if y > box[3] {
				box[3] = y
			}
		}
	}
	return merged
}
