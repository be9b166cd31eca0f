package pcmengine

import "github.com/user/h264enc/pkg/ports"

// load copies pic into e.cur in macroblock order. Samples outside the
// picture replicate the nearest edge sample. Zero samples are raised to one
// so that PCM payloads never contain the value zero.
func (e *Engine) load(pic *ports.Picture) error {
	if pic.ColorFormat != ports.ColorFormatI420 {
		return StatusUnsupportedData
	}
	if pic.Width != e.params.Width || pic.Height != e.params.Height {
		return StatusUnsupportedData
	}

	cw, ch := pic.Width/2, pic.Height/2
	dims := [3][2]int{{pic.Width, pic.Height}, {cw, ch}, {cw, ch}}
	for i := range pic.Planes {
		w, h := dims[i][0], dims[i][1]
		stride := pic.Strides[i]
		if stride < w || len(pic.Planes[i]) < (h-1)*stride+w {
			return StatusUnsupportedData
		}
	}

	loadPlane(e.cur[0], pic.Planes[0], pic.Strides[0], pic.Width, pic.Height, 16, e.geo.mbWidth, e.geo.mbHeight)
	loadPlane(e.cur[1], pic.Planes[1], pic.Strides[1], cw, ch, 8, e.geo.mbWidth, e.geo.mbHeight)
	loadPlane(e.cur[2], pic.Planes[2], pic.Strides[2], cw, ch, 8, e.geo.mbWidth, e.geo.mbHeight)
	return nil
}

// loadPlane rearranges a raster plane into consecutive block x block tiles.
func loadPlane(dst, src []byte, stride, width, height, block, mbWidth, mbHeight int) {
	n := 0
	for my := 0; my < mbHeight; my++ {
		for mx := 0; mx < mbWidth; mx++ {
			for y := 0; y < block; y++ {
				sy := my*block + y
				if sy >= height {
					sy = height - 1
				}
				row := src[sy*stride : sy*stride+width]
				for x := 0; x < block; x++ {
					sx := mx*block + x
					if sx >= width {
						sx = width - 1
					}
					v := row[sx]
					if v == 0 {
						v = 1
					}
					dst[n] = v
					n++
				}
			}
		}
	}
}
