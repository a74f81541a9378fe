// Package imaging is the pixel-access collaborator: bytes in, BGR Mat out,
// plus the square canvas the detector consumes.
package imaging

import (
	"bytes"
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/geometry"
)

// Decode turns encoded image bytes into a BGR Mat. OpenCV handles the common
// formats; WebP falls back to the pure-Go decoder. The caller owns the Mat.
func Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), fault.New(fault.ImageDecodeError, "empty image data")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}

	img, werr := webp.Decode(bytes.NewReader(data))
	if werr != nil {
		return gocv.NewMat(), fault.New(fault.ImageDecodeError,
			"unsupported or corrupt image (imdecode: %v, webp: %v)", err, werr)
	}
	return fromImage(img)
}

// fromImage converts a decoded image.Image into a BGR Mat, reusing pooled
// RGBA buffers for the intermediate copy.
func fromImage(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	rgba := GetRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	defer PutRGBA(rgba)
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	m, err := gocv.ImageToMatRGBA(rgba)
	if err != nil {
		return gocv.NewMat(), fault.Wrap(fault.ImageDecodeError, err)
	}
	defer m.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(m, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// Canvas fits the image onto a size×size square for inference. Letterbox
// pads the shorter axis with black before scaling, matching the geometry
// transform's bookkeeping; stretch resizes each axis independently.
func Canvas(img gocv.Mat, size int, mode geometry.Mode) (gocv.Mat, error) {
	w := img.Cols()
	h := img.Rows()
	if w <= 0 || h <= 0 {
		return gocv.NewMat(), fault.New(fault.InvalidImageGeometry,
			"source image has zero area (%dx%d)", w, h)
	}

	dst := gocv.NewMat()
	if mode == geometry.Stretch {
		gocv.Resize(img, &dst, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)
		return dst, nil
	}

	side := w
	if h > side {
		side = h
	}
	top := (side - h) / 2
	bottom := side - h - top
	left := (side - w) / 2
	right := side - w - left

	square := gocv.NewMat()
	defer square.Close()
	gocv.CopyMakeBorder(img, &square, top, bottom, left, right,
		gocv.BorderConstant, color.RGBA{})

	gocv.Resize(square, &dst, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)
	return dst, nil
}
