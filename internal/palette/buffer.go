package palette

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/talgya/hexterrain/internal/world"
)

// Alpha is the opaque alpha written for every cell.
const Alpha = 255

// Buffer converts the grid into R,G,B,A floats per cell, row-major.
// This is the payload the renderer uploads as-is.
func Buffer(g *world.Grid) []float32 {
	cells := g.Cells()
	buf := make([]float32, len(cells)*4)
	for i, c := range cells {
		col := ShadeCell(c)
		base := i * 4
		buf[base+0] = float32(col.R)
		buf[base+1] = float32(col.G)
		buf[base+2] = float32(col.B)
		buf[base+3] = Alpha
	}
	return buf
}

// Image renders the grid one pixel per cell.
func Image(g *world.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			col := ShadeCell(*g.At(x, y))
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(col.R),
				G: toByte(col.G),
				B: toByte(col.B),
				A: Alpha,
			})
		}
	}
	return img
}

// WritePNG encodes the grid image as PNG.
func WritePNG(w io.Writer, g *world.Grid) error {
	if err := png.Encode(w, Image(g)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteBuffer writes a color buffer as little-endian float32 values.
func WriteBuffer(w io.Writer, buf []float32) error {
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("write color buffer: %w", err)
	}
	return nil
}

// ReadBuffer reads n cells of little-endian float32 RGBA written by WriteBuffer.
func ReadBuffer(r io.Reader, cells int) ([]float32, error) {
	buf := make([]float32, cells*4)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, fmt.Errorf("read color buffer: %w", err)
	}
	return buf, nil
}

// SavePNG writes the grid image to path, creating parent directories.
func SavePNG(path string, g *world.Grid) error {
	return saveFile(path, func(w io.Writer) error { return WritePNG(w, g) })
}

// SaveBuffer writes the color buffer of g to path, creating parent directories.
func SaveBuffer(path string, g *world.Grid) error {
	return saveFile(path, func(w io.Writer) error { return WriteBuffer(w, Buffer(g)) })
}

func saveFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func toByte(v float64) uint8 {
	return uint8(clamp(v, 0, 255) + 0.5)
}
