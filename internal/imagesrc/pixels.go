package imagesrc

import (
	"fmt"
	"image"
	"image/color"
)

// PixelBuffer is a decoded image as raw bytes: Width*Height*Channels, row-major, top row first.
// The first three channels are red, green and blue.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewPixelBuffer wraps pix after checking its size. channels must be 3 or 4.
func NewPixelBuffer(width, height, channels int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imagesrc: invalid size %dx%d", width, height)
	}
	if channels < 3 || channels > 4 {
		return nil, fmt.Errorf("imagesrc: unsupported channel count %d", channels)
	}
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("imagesrc: expected %d bytes, got %d", width*height*channels, len(pix))
	}
	return &PixelBuffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

// FromImage copies img into a 4-channel, non-premultiplied RGBA buffer.
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B, c.A)
		}
	}
	return &PixelBuffer{Width: w, Height: h, Channels: 4, Pix: pix}
}

// RGB returns the red, green and blue bytes of the pixel at (x, y).
func (p *PixelBuffer) RGB(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * p.Channels
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}
