package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decode only
)

// Format names an encoder
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatFromPath infers the encoder from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseFormat accepts format names and common extensions
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported output format %q (png|jpeg|gif|bmp|tiff)", s)
}

// Decode reads any registered format (png, jpeg, gif, bmp, tiff, webp)
func Decode(r io.Reader) (*pixel.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

// ReadFile decodes the image at path, "-" reads stdin
func ReadFile(path string) (*pixel.Buffer, string, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes buf in the given format. quality only applies to jpeg.
func Encode(w io.Writer, buf *pixel.Buffer, format Format, quality int) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	img := buf.Image()
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case GIF:
		return gif.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// WriteFile encodes buf to path, "-" writes stdout
func WriteFile(path string, buf *pixel.Buffer, format Format, quality int) error {
	if path == "-" {
		return Encode(os.Stdout, buf, format, quality)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(f, buf, format, quality); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return f.Close()
}
