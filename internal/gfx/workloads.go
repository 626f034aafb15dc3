package gfx

// The workloads below run one full-surface pass per iteration. Pixel
// format is packed RGBA, one uint32 per pixel.

const (
	clearValue    = 0xFF202020
	solidColor    = 0xFFCC0000
	blendColor    = 0x80CC0000
	meshWidth     = 64
	meshHeight    = 64
	meshTriangles = 2 * meshWidth * meshHeight
)

func (s *Suite) swap(iterations int) {
	for i := 0; i < iterations; i++ {
		copy(s.front, s.back)
		s.front, s.back = s.back, s.front
	}
}

func (s *Suite) clearColor(iterations int) {
	for i := 0; i < iterations; i++ {
		for j := range s.back {
			s.back[j] = clearValue
		}
	}
}

func (s *Suite) clearDepth(iterations int) {
	for i := 0; i < iterations; i++ {
		for j := range s.depth {
			s.depth[j] = 1.0
		}
	}
}

func (s *Suite) clearColorDepth(iterations int) {
	for i := 0; i < iterations; i++ {
		for j := range s.back {
			s.back[j] = clearValue
		}
		for j := range s.depth {
			s.depth[j] = 1.0
		}
	}
}

func (s *Suite) fillSolid(iterations int) {
	for i := 0; i < iterations; i++ {
		for j := range s.back {
			s.back[j] = solidColor
		}
	}
}

// fillBlended does a source-over blend against the destination, the
// software analogue of GL_SRC_ALPHA/GL_ONE_MINUS_SRC_ALPHA.
func (s *Suite) fillBlended(iterations int) {
	src := uint32(blendColor)
	sa := src >> 24
	inv := 255 - sa
	for i := 0; i < iterations; i++ {
		for j := range s.back {
			dst := s.back[j]
			r := ((src>>16&0xFF)*sa + (dst>>16&0xFF)*inv) / 255
			g := ((src>>8&0xFF)*sa + (dst>>8&0xFF)*inv) / 255
			b := ((src&0xFF)*sa + (dst&0xFF)*inv) / 255
			s.back[j] = 0xFF000000 | r<<16 | g<<8 | b
		}
	}
}

func (s *Suite) fillTexNearest(iterations int) {
	t := s.tex
	for i := 0; i < iterations; i++ {
		idx := 0
		for y := 0; y < s.height; y++ {
			ty := y * t.size / s.height
			row := ty * t.size
			for x := 0; x < s.width; x++ {
				tx := x * t.size / s.width
				s.back[idx] = t.pixels[row+tx]
				idx++
			}
		}
	}
}

func (s *Suite) fillTexBilinear(iterations int) {
	t := s.tex
	for i := 0; i < iterations; i++ {
		idx := 0
		for y := 0; y < s.height; y++ {
			fy := (float64(y) + 0.5) * float64(t.size) / float64(s.height)
			for x := 0; x < s.width; x++ {
				fx := (float64(x) + 0.5) * float64(t.size) / float64(s.width)
				s.back[idx] = t.sampleBilinear(fx, fy)
				idx++
			}
		}
	}
}

// triangleSetup walks a lattice mesh computing bounding boxes and edge
// functions for every triangle without rasterizing, isolating the
// per-triangle setup cost like the original mtri_sec test.
func (s *Suite) triangleSetup(iterations int) {
	fw := float32(s.width) / meshWidth
	fh := float32(s.height) / meshHeight
	var sink float32
	for i := 0; i < iterations; i++ {
		for j := 0; j < meshHeight; j++ {
			y0 := float32(j) * fh
			y1 := y0 + fh
			for k := 0; k < meshWidth; k++ {
				x0 := float32(k) * fw
				x1 := x0 + fw
				sink += edgeSetup(x0, y0, x1, y0, x0, y1)
				sink += edgeSetup(x1, y1, x0, y1, x1, y0)
			}
		}
	}
	s.depth[0] = sink // keep the loop from being optimized away
}

func edgeSetup(ax, ay, bx, by, cx, cy float32) float32 {
	minX := min3(ax, bx, cx)
	maxX := max3(ax, bx, cx)
	minY := min3(ay, by, cy)
	maxY := max3(ay, by, cy)
	// Twice the signed area; negative means back-facing (culled).
	area := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	if area <= 0 {
		return 0
	}
	return (maxX - minX) + (maxY - minY) + area
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// texture is a square RGBA texture with the historical (i^j) test
// pattern.
type texture struct {
	size   int
	pixels []uint32
}

func newTexture(size int) *texture {
	t := &texture{size: size, pixels: make([]uint32, size*size)}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			v := uint32((i ^ j) & 0xFF)
			t.pixels[i*size+j] = 0xFF000000 | v<<16 | v<<8 | v
		}
	}
	return t
}

func (t *texture) sampleBilinear(fx, fy float64) uint32 {
	x0 := int(fx - 0.5)
	y0 := int(fy - 0.5)
	x1 := x0 + 1
	y1 := y0 + 1
	wx := fx - 0.5 - float64(x0)
	wy := fy - 0.5 - float64(y0)

	x0 = clamp(x0, t.size-1)
	x1 = clamp(x1, t.size-1)
	y0 = clamp(y0, t.size-1)
	y1 = clamp(y1, t.size-1)

	p00 := t.pixels[y0*t.size+x0]
	p10 := t.pixels[y0*t.size+x1]
	p01 := t.pixels[y1*t.size+x0]
	p11 := t.pixels[y1*t.size+x1]

	var out uint32 = 0xFF000000
	for shift := 0; shift <= 16; shift += 8 {
		c00 := float64(p00 >> shift & 0xFF)
		c10 := float64(p10 >> shift & 0xFF)
		c01 := float64(p01 >> shift & 0xFF)
		c11 := float64(p11 >> shift & 0xFF)
		top := c00 + (c10-c00)*wx
		bot := c01 + (c11-c01)*wx
		out |= uint32(top+(bot-top)*wy) << shift
	}
	return out
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
