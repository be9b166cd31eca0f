package ports

// PixelFormat identifies the byte layout of a packed pixel buffer.
type PixelFormat int

const (
	// PixelFormatUnknown is the zero value and is never accepted.
	PixelFormatUnknown PixelFormat = iota
	// PixelFormatRGB24 stores three bytes per pixel: R, G, B.
	PixelFormatRGB24
	// PixelFormatRGB32 stores four bytes per pixel: R, G, B, unused.
	PixelFormatRGB32
	// PixelFormatARGB32 stores four bytes per pixel: R, G, B, A (straight alpha).
	// This is the layout of image.NRGBA.
	PixelFormatARGB32
	// PixelFormatPARGB32 stores four bytes per pixel: R, G, B, A (premultiplied).
	// This is the layout of image.RGBA.
	PixelFormatPARGB32
	// PixelFormatGray8 stores one luminance byte per pixel.
	// It is described here so callers can name it, but the converter rejects it.
	PixelFormatGray8
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB24:
		return "rgb24"
	case PixelFormatRGB32:
		return "rgb32"
	case PixelFormatARGB32:
		return "argb32"
	case PixelFormatPARGB32:
		return "pargb32"
	case PixelFormatGray8:
		return "gray8"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the pixel size in bytes, or 0 for formats
// that cannot be converted to RGBA.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB24:
		return 3
	case PixelFormatRGB32, PixelFormatARGB32, PixelFormatPARGB32:
		return 4
	default:
		return 0
	}
}

// PixelFrame is a caller-owned packed pixel buffer.
// Rows start every Stride bytes; Stride may exceed Width*BytesPerPixel.
type PixelFrame struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Pix    []byte
}
