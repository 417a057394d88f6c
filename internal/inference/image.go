package inference

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
)

// ErrUnsupportedImage is returned for image payloads that are not PNG or JPEG.
var ErrUnsupportedImage = errors.New("unsupported image format")

// DecodeImage decodes a base64 image payload and checks its format.
// A data URI prefix is tolerated.
func DecodeImage(payload string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		_, payload, _ = strings.Cut(rest, ",")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if _, ok := imageType(data); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, http.DetectContentType(data))
	}

	return data, nil
}

// EncodeImage renders image bytes as a data URI for a vision request.
func EncodeImage(data []byte) (string, error) {
	mime, ok := imageType(data)
	if !ok {
		return "", ErrUnsupportedImage
	}

	if mime == "image/png" {
		return encoding.EncodeImageDataURI(data, document.PNG)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func imageType(data []byte) (string, bool) {
	switch mime := http.DetectContentType(data); mime {
	case "image/png", "image/jpeg":
		return mime, true
	default:
		return mime, false
	}
}
