package thumbnail

import (
	"image"
	"image/color"
	"math"
)

// vertex2 is a projected triangle corner: screen position plus depth.
type vertex2 struct {
	x, y, z float64
}

// fillTriangle rasterizes a projected triangle with scanline fill and
// per-pixel depth testing against the z-buffer.
func fillTriangle(img *image.RGBA, zbuffer []float64, v [3]vertex2, col color.RGBA) {
	// Sort corners top to bottom.
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	yStart := int(math.Max(0, v[0].y))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), v[2].y))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// Intersect the scanline with the three edges; two hits
		// bound the horizontal span.
		var hits [2]vertex2
		n := 0
		for _, e := range [3][2]vertex2{{v[0], v[1]}, {v[1], v[2]}, {v[0], v[2]}} {
			if e[0].y == e[1].y || fy < e[0].y || fy > e[1].y {
				continue
			}
			t := (fy - e[0].y) / (e[1].y - e[0].y)
			hit := vertex2{
				x: e[0].x + t*(e[1].x-e[0].x),
				y: fy,
				z: e[0].z + t*(e[1].z-e[0].z),
			}
			if n < 2 {
				hits[n] = hit
				n++
			}
		}
		if n < 2 {
			continue
		}

		left, right := hits[0], hits[1]
		if left.x > right.x {
			left, right = right, left
		}

		xStart := int(math.Max(0, left.x))
		xEnd := int(math.Min(float64(bounds.Max.X-1), right.x))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if right.x != left.x {
				t = (float64(x) - left.x) / (right.x - left.x)
			}
			z := left.z + t*(right.z-left.z)

			idx := y*width + x
			if idx >= 0 && idx < len(zbuffer) && z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}
