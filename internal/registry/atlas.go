package registry

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log"

	"golang.org/x/image/draw"
)

// missing is drawn in the cells of textures that could not be read.
var missing = [2]color.RGBA{{R: 0xF8, B: 0xF8, A: 0xFF}, {A: 0xFF}}

// BuildAtlas draws the registered textures, read from fsys by file name, into
// one image of AtlasColumns x AtlasRows cells of tile pixels each, in
// TextureNames order. Textures of another size are scaled to the cell.
// Unreadable textures get a checkerboard and are reported in the returned
// error; the atlas is still usable.
func (r *Registry) BuildAtlas(fsys fs.FS, tile int) (*image.RGBA, error) {
	if tile <= 0 {
		return nil, fmt.Errorf("registry: atlas tile size %d", tile)
	}
	if len(r.textureNames) > AtlasColumns*AtlasRows {
		return nil, fmt.Errorf("registry: %d textures do not fit a %dx%d atlas", len(r.textureNames), AtlasColumns, AtlasRows)
	}
	atlas := image.NewRGBA(image.Rect(0, 0, AtlasColumns*tile, AtlasRows*tile))

	var errs []error
	for n, name := range r.textureNames {
		cell := image.Rect(0, 0, tile, tile).Add(image.Pt(n%AtlasColumns*tile, n/AtlasColumns*tile))
		img, err := decodeTexture(fsys, name)
		if err != nil {
			log.Printf("atlas: %v", err)
			errs = append(errs, err)
			checker(atlas, cell)
			continue
		}
		draw.NearestNeighbor.Scale(atlas, cell, img, img.Bounds(), draw.Src, nil)
	}
	return atlas, errors.Join(errs...)
}

// WriteAtlas encodes an atlas as PNG.
func WriteAtlas(w io.Writer, atlas image.Image) error {
	return png.Encode(w, atlas)
}

func decodeTexture(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", name, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", name, err)
	}
	return img, nil
}

func checker(dst *image.RGBA, cell image.Rectangle) {
	half := max(cell.Dx()/2, 1)
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			dst.SetRGBA(x, y, missing[((x-cell.Min.X)/half+(y-cell.Min.Y)/half)%2])
		}
	}
}
