package yolods

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// resizeImage resamples img so that its longer side measures longerSide pixels, keeping the
// aspect ratio. Box filtering is used for downsampling and linear filtering for upsampling.
func resizeImage(img image.Image, longerSide int) image.Image {
	imgBounds := img.Bounds()
	imgWidth := imgBounds.Dx()
	imgHeight := imgBounds.Dy()

	imgLonger, imgShorter := imgWidth, imgHeight
	isLandscape := true
	if imgHeight > imgWidth {
		imgLonger, imgShorter = imgHeight, imgWidth
		isLandscape = false
	}
	if imgLonger == longerSide || imgLonger == 0 {
		return img
	}
	shorterSide := int(math.Round(float64(longerSide) * (float64(imgShorter) / float64(imgLonger))))
	if shorterSide < 1 {
		shorterSide = 1
	}

	// Select the filter based on the direction of the rescaling operation.
	filter := imaging.Linear
	if longerSide < imgLonger {
		filter = imaging.Box
	}

	if isLandscape {
		return imaging.Resize(img, longerSide, shorterSide, filter)
	}
	return imaging.Resize(img, shorterSide, longerSide, filter)
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// loadImage reads and decodes the image at path and returns the results of image.Decode.
func loadImage(path string) (img image.Image, format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return image.Decode(f)
}

// saveImage saves the image to path, encoding it as PNG or JPG, depending on the file extension
// of path.
func saveImage(path string, img image.Image, jpegQuality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(f, &err)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	default:
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
}

// imageDecodeError is returned by resizeImageFile if the source image cannot be read or decoded.
type imageDecodeError struct {
	Path string
	Err  error
}

func (e *imageDecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %q: %v", e.Path, e.Err)
}

func (e *imageDecodeError) Unwrap() error {
	return e.Err
}

// resizeImageFile loads the image at src, resizes it and saves it to dst in the format implied by
// the extension of dst. Nothing is written to dst if src cannot be decoded.
func resizeImageFile(dst, src string, longerSide, jpegQuality int) error {
	img, _, err := loadImage(src)
	if err != nil {
		return &imageDecodeError{Path: src, Err: err}
	}
	return saveImage(dst, resizeImage(img, longerSide), jpegQuality)
}
