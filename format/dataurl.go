package format

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// parsedDataURL is the result of picking apart a data: URL from a
// canvas-like value.
type parsedDataURL struct {
	mime string
	// base64 text, exactly as it will travel on the wire
	payload string
}

// parseDataURL splits a data URL of the form data:<mime>;base64,<payload>
// into its MIME type and payload. Only base64-encoded image types are
// accepted: the library never handles binary media, and a canvas that
// hands us percent-encoded text is out of scope.
func parseDataURL(u string) (parsedDataURL, error) {
	if !strings.HasPrefix(u, "data:") {
		return parsedDataURL{}, errors.New("the value's ToDataURL result is not a data URL")
	}

	rest := u[len("data:"):]
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return parsedDataURL{}, errors.New("the data URL has no payload")
	}

	enc := ""
	mime := meta
	if i := strings.Index(meta, ";"); i >= 0 {
		mime = meta[:i]
		enc = meta[i+1:]
	}

	if enc != "base64" {
		return parsedDataURL{}, fmt.Errorf(
			"expected a base64 data URL but got encoding %q",
			enc,
		)
	}

	if !strings.HasPrefix(mime, "image/") {
		return parsedDataURL{}, fmt.Errorf("%q is not an image MIME type", mime)
	}

	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return parsedDataURL{}, fmt.Errorf("the data URL payload is not base64 text: %v", err)
	}

	return parsedDataURL{
		mime:    mime,
		payload: payload,
	}, nil
}
