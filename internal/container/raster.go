/*
 * db48x - raster objects: grob, bitmap, pixmap.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package container

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// Grob is the 1-bit-per-pixel raster object. Rows are packed
// most-significant-bit first, (Width+7)/8 bytes per row. The core never
// touches pixels beyond filling them in; drawing belongs to the
// external rasterizer.
type Grob struct {
	Width, Height int
	Rows          []byte
}

func grobStride(w int) int { return (w + 7) / 8 }

// NewGrob allocates a cleared w x h grob.
func NewGrob(w, h int) *Grob {
	return &Grob{Width: w, Height: h, Rows: make([]byte, grobStride(w)*h)}
}

// Set turns the pixel at (x, y) on; out-of-range coordinates are
// ignored rather than panicking, matching how a small screen clips.
func (g *Grob) Set(x, y int) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Rows[y*grobStride(g.Width)+x/8] |= 0x80 >> (x % 8)
}

// Get reports the pixel at (x, y); out of range reads as off.
func (g *Grob) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return g.Rows[y*grobStride(g.Width)+x/8]&(0x80>>(x%8)) != 0
}

func (g *Grob) Size() int                      { return 12 + len(g.Rows) }
func (g *Grob) Walk(func(arena.Ref) arena.Ref) {}
func (g *Grob) Tag() object.Tag                { return object.TagGrob }

// Render writes the single-token source form `GROB#w#h#hexdata`, the
// same notation the parser reads back.
func (g *Grob) Render(p *object.Printer) {
	fmt.Fprintf(p, "GROB#%d#%d#", g.Width, g.Height)
	for _, b := range g.Rows {
		fmt.Fprintf(p, "%02X", b)
	}
}

func (g *Grob) Evaluate(m object.Machine) *object.Error { m.Push(g); return nil }

func (g *Grob) Graph(c *object.Canvas, p *object.Printer) {
	for y := 0; y < g.Height && y < c.Height; y++ {
		for x := 0; x < g.Width && x < c.Width; x++ {
			if g.Get(x, y) {
				c.Rows[y][x] = '#'
			}
		}
	}
}

// Bitmap carries one alpha byte per pixel, Pixmap three RGB bytes; both
// share Grob's flat-row layout and source notation, differing only in
// bytes per pixel and keyword.
type Bitmap struct {
	Width, Height int
	Alpha         []byte
}

func (b *Bitmap) Size() int                      { return 12 + len(b.Alpha) }
func (b *Bitmap) Walk(func(arena.Ref) arena.Ref) {}
func (b *Bitmap) Tag() object.Tag                { return object.TagBitmap }
func (b *Bitmap) Render(p *object.Printer) {
	fmt.Fprintf(p, "BITMAP#%d#%d#", b.Width, b.Height)
	for _, v := range b.Alpha {
		fmt.Fprintf(p, "%02X", v)
	}
}
func (b *Bitmap) Evaluate(m object.Machine) *object.Error { m.Push(b); return nil }
func (b *Bitmap) Graph(c *object.Canvas, p *object.Printer) {
	for y := 0; y < b.Height && y < c.Height; y++ {
		for x := 0; x < b.Width && x < c.Width; x++ {
			if b.Alpha[y*b.Width+x] >= 0x80 {
				c.Rows[y][x] = '#'
			}
		}
	}
}

type Pixmap struct {
	Width, Height int
	RGB           []byte // 3 bytes per pixel, row-major
}

func (px *Pixmap) Size() int                      { return 12 + len(px.RGB) }
func (px *Pixmap) Walk(func(arena.Ref) arena.Ref) {}
func (px *Pixmap) Tag() object.Tag                { return object.TagPixmap }
func (px *Pixmap) Render(p *object.Printer) {
	fmt.Fprintf(p, "PIXMAP#%d#%d#", px.Width, px.Height)
	for _, v := range px.RGB {
		fmt.Fprintf(p, "%02X", v)
	}
}
func (px *Pixmap) Evaluate(m object.Machine) *object.Error { m.Push(px); return nil }
func (px *Pixmap) Graph(c *object.Canvas, p *object.Printer) {
	for y := 0; y < px.Height && y < c.Height; y++ {
		for x := 0; x < px.Width && x < c.Width; x++ {
			i := (y*px.Width + x) * 3
			lum := int(px.RGB[i]) + int(px.RGB[i+1]) + int(px.RGB[i+2])
			if lum >= 3*0x80 {
				c.Rows[y][x] = '#'
			}
		}
	}
}

// parseHexBytes reads an even-length hex string.
func parseHexBytes(s string) ([]byte, bool) {
	if len(s)%2 != 0 {
		return nil, false
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, false
		}
		out[i] = byte(v)
	}
	return out, true
}

func init() {
	// `GROB#w#h#hexdata` literal; BITMAP/PIXMAP follow the same shape.
	// The separator is # rather than a scanner delimiter so the whole
	// form scans as one token.
	object.RegisterLiteral(func(alloc object.Allocator, src string) (object.Value, string, error) {
		for _, kw := range []string{"GROB#", "BITMAP#", "PIXMAP#"} {
			if !strings.HasPrefix(src, kw) {
				continue
			}
			parts := strings.Split(strings.TrimPrefix(src, kw), "#")
			if len(parts) != 3 {
				return nil, src, nil
			}
			w, err1 := strconv.Atoi(parts[0])
			h, err2 := strconv.Atoi(parts[1])
			data, ok := parseHexBytes(parts[2])
			if err1 != nil || err2 != nil || !ok || w <= 0 || h <= 0 {
				return nil, src, nil
			}
			switch kw {
			case "GROB#":
				if len(data) != grobStride(w)*h {
					return nil, src, nil
				}
				return &Grob{Width: w, Height: h, Rows: data}, "", nil
			case "BITMAP#":
				if len(data) != w*h {
					return nil, src, nil
				}
				return &Bitmap{Width: w, Height: h, Alpha: data}, "", nil
			default:
				if len(data) != w*h*3 {
					return nil, src, nil
				}
				return &Pixmap{Width: w, Height: h, RGB: data}, "", nil
			}
		}
		return nil, src, nil
	})

	// →GROB typesets any value into a fresh grob via its Graph method,
	// one text row tall, wide enough for the rendered form.
	object.RegisterCommand("→GROB", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		p := object.NewPrinter(m.RenderOpts())
		v.Render(p)
		text := p.String()
		cellW, cellH := 6, 8
		g := NewGrob(len(text)*cellW, cellH)
		// A 5x7 dot approximation: each glyph cell gets a filled block,
		// leaving real font work to the external rasterizer.
		for i := range text {
			for y := 1; y < cellH-1; y++ {
				for x := 0; x < cellW-1; x++ {
					g.Set(i*cellW+x, y)
				}
			}
		}
		m.Push(g)
		return nil
	})
}
