package report

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MinPhotos    = 1
	MaxPhotos    = 3
	MaxPhotoSize = 10 << 20
)

// Photo describes one attached image. Data is only present while the
// submission is in flight and is never persisted.
type Photo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// NewPhoto builds a photo from raw bytes, sniffing the MIME type from the
// content instead of trusting the file name.
func NewPhoto(name string, data []byte) Photo {
	return Photo{
		Name:     name,
		Size:     int64(len(data)),
		MimeType: mimetype.Detect(data).String(),
		Data:     data,
	}
}

// IsImage reports whether the photo has an image MIME type. When bytes are
// available the sniffed type wins over the declared one.
func (p Photo) IsImage() bool {
	mt := p.MimeType
	if len(p.Data) > 0 {
		mt = mimetype.Detect(p.Data).String()
	}
	return strings.HasPrefix(mt, "image/")
}

func validatePhotos(photos []Photo) error {
	if len(photos) < MinPhotos {
		return invalid("photos", "add at least one photo")
	}
	if len(photos) > MaxPhotos {
		return invalid("photos", fmt.Sprintf("no more than %d photos allowed", MaxPhotos))
	}
	for _, p := range photos {
		if p.Size > MaxPhotoSize {
			return invalid("photos", fmt.Sprintf("photo %q is larger than 10 MB", p.Name))
		}
		if !p.IsImage() {
			return invalid("photos", fmt.Sprintf("file %q is not an image", p.Name))
		}
	}
	return nil
}
