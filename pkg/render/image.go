package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrImageFormat is returned for output files with an unknown extension.
var ErrImageFormat = errors.New("unsupported image format")

// ImageFormat is an output image encoding.
type ImageFormat int

const (
	ImagePNG ImageFormat = iota
	ImageJPEG
	ImageGIF
	ImageTIFF
	ImageBMP
)

func (f ImageFormat) String() string {
	switch f {
	case ImagePNG:
		return "png"
	case ImageJPEG:
		return "jpeg"
	case ImageGIF:
		return "gif"
	case ImageTIFF:
		return "tiff"
	case ImageBMP:
		return "bmp"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

// ImageFormatFromExt maps a file extension, with or without the leading
// dot, to an ImageFormat.
func ImageFormatFromExt(ext string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return ImagePNG, nil
	case "jpg", "jpeg":
		return ImageJPEG, nil
	case "gif":
		return ImageGIF, nil
	case "tif", "tiff":
		return ImageTIFF, nil
	case "bmp":
		return ImageBMP, nil
	}
	return ImagePNG, fmt.Errorf("%w: %q", ErrImageFormat, ext)
}

// EncodeImage writes img to w in the given format. JPEG is lossy and will
// not reproduce exact pixel colors.
func EncodeImage(w io.Writer, img image.Image, f ImageFormat) error {
	switch f {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ImageGIF:
		return gif.Encode(w, img, nil)
	case ImageTIFF:
		return tiff.Encode(w, img, nil)
	case ImageBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrImageFormat, f)
	}
}

// SaveImage writes img to path, choosing the encoding from the extension.
// Parent directories must exist.
func SaveImage(img image.Image, path string) (err error) {
	f, err := ImageFormatFromExt(filepath.Ext(path))
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(file)
	if err := EncodeImage(bw, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return bw.Flush()
}

// DecodeImageFile reads an image written by SaveImage.
func DecodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ImageFormatFromExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	switch f {
	case ImageBMP:
		return bmp.Decode(file)
	case ImageTIFF:
		return tiff.Decode(file)
	default:
		img, _, err := image.Decode(file)
		return img, err
	}
}
