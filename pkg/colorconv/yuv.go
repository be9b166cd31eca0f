package colorconv

import "fmt"

// BT.601 studio-swing coefficients in thousandths. Working in integers keeps
// the output identical on every platform.
const (
	yR, yG, yB, yOff = 257, 504, 98, 16000
	uR, uG, uB, uOff = 439, -368, -71, 128000
	vR, vG, vB, vOff = -148, -291, 439, 128000
)

// I420Size returns the byte length of an I420 picture of the given size.
func I420Size(width, height int) int {
	return width * height * 3 / 2
}

// RGBAToYUV420Planar converts a packed RGBA buffer into I420.
//
// The output holds the full-resolution Y plane, then U, then V, each chroma
// plane at half resolution in both directions. Chroma is point-sampled from
// the top-left pixel of every 2x2 block. Width and height must be even.
func RGBAToYUV420Planar(rgba []byte, width, height int) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if len(rgba) < width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidFrame, len(rgba), width*height*4)
	}

	out := make([]byte, I420Size(width, height))
	convert(out, rgba, width, height)
	return out, nil
}

// RGBAToYUV420PlanarInto is RGBAToYUV420Planar writing into dst, which must
// be exactly I420Size(width, height) bytes long.
func RGBAToYUV420PlanarInto(dst, rgba []byte, width, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	if len(rgba) < width*height*4 {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidFrame, len(rgba), width*height*4)
	}
	if len(dst) != I420Size(width, height) {
		return fmt.Errorf("%w: destination %d bytes, need %d", ErrInvalidFrame, len(dst), I420Size(width, height))
	}
	convert(dst, rgba, width, height)
	return nil
}

func convert(out, rgba []byte, width, height int) {
	imageSize := width * height
	upos := imageSize
	vpos := imageSize + imageSize/4
	i := 0

	for row := 0; row < height; row++ {
		even := row%2 == 0
		for col := 0; col < width; col++ {
			r := int(rgba[4*i])
			g := int(rgba[4*i+1])
			b := int(rgba[4*i+2])

			out[i] = scale(yR*r + yG*g + yB*b + yOff)

			if even && i%2 == 0 {
				out[upos] = scale(uR*r + uG*g + uB*b + uOff)
				out[vpos] = scale(vR*r + vG*g + vB*b + vOff)
				upos++
				vpos++
			}
			i++
		}
	}
}

// scale clamps a thousandths value to the byte range and truncates.
func scale(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255000 {
		return 255
	}
	return byte(v / 1000)
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}
