package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"strings"

	"storynest/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	MaxUploadSizeMB = 10
	DisplayMaxSize  = 2048
	ThumbnailSize   = 256
	JPEGQuality     = 82
	WebPQuality     = 70
)

// NormalizedImage is the storage-ready form of an upload: a bounded WebP for
// display plus a small JPEG thumbnail.
type NormalizedImage struct {
	WebP      []byte
	Thumbnail []byte
	Width     int
	Height    int
}

// ImageService validates and re-encodes uploaded images. Coloring submissions
// pass through here before anything reaches object storage, so oversized and
// non-image payloads never get persisted.
type ImageService struct {
	maxUploadSizeBytes int64
}

func NewImageService() *ImageService {
	return &ImageService{
		maxUploadSizeBytes: int64(MaxUploadSizeMB) * 1024 * 1024,
	}
}

// Normalize decodes the upload, verifies it really is a supported image and
// re-encodes it. The declared content type must agree with what the bytes
// actually contain.
func (s *ImageService) Normalize(content []byte, declaredContentType string) (*NormalizedImage, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("no file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("file too large (max %dMB)", MaxUploadSizeMB))
	}

	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return nil, models.NewValidationError("invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("unsupported image format")
	}
	if provided := normalizeContentType(declaredContentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("image content type mismatch")
	}

	display := resizeToFit(decoded, DisplayMaxSize, DisplayMaxSize)
	webpBytes, err := encodeWebP(display, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbnailSize, ThumbnailSize)
	thumbBytes, err := encodeJPEG(thumb, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	b := display.Bounds()
	return &NormalizedImage{
		WebP:      webpBytes,
		Thumbnail: thumbBytes,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
