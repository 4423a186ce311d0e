package bundle

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// The helpers in this file are for authoring a bundle directly rather than
// deriving one from a value's shape. Each returns a Bundle (which is itself
// Displayable) carrying a single MIME type. The text-based helpers accept a
// printf-style format string so call sites can interpolate without a
// separate fmt.Sprintf.

// single builds a one-entry Bundle. No validation: the MIME constants in
// this package are known good, and payloads are caller-authored text.
func single(mime string, payload interface{}) Bundle {
	return Bundle{Data: map[string]interface{}{mime: payload}}
}

// HTML returns a text/html bundle. The markup is passed to the frontend
// verbatim, so the caller is responsible for escaping interpolated values.
func HTML(format string, a ...interface{}) Bundle {
	return single(TextHTML, sprintf(format, a...))
}

// Markdown returns a text/markdown bundle.
func Markdown(format string, a ...interface{}) Bundle {
	return single(TextMarkdown, sprintf(format, a...))
}

// Text returns a text/plain bundle.
func Text(format string, a ...interface{}) Bundle {
	return single(TextPlain, sprintf(format, a...))
}

// JS returns an application/javascript bundle. The frontend evaluates the
// payload in the output cell's context.
func JS(format string, a ...interface{}) Bundle {
	return single(JavaScript, sprintf(format, a...))
}

// SVG returns an image/svg+xml bundle.
func SVG(format string, a ...interface{}) Bundle {
	return single(ImageSVG, sprintf(format, a...))
}

// JSONValue returns an application/json bundle wrapping v. v must marshal
// cleanly to JSON; the error surfaces from Validate or at send time
// otherwise.
func JSONValue(v interface{}) Bundle {
	return single(JSON, v)
}

// sprintf formats only when arguments are present, so helper payloads
// containing stray % signs (common in JavaScript and SVG) pass through
// untouched.
func sprintf(format string, a ...interface{}) string {
	if len(a) == 0 {
		return format
	}
	return fmt.Sprintf(format, a...)
}

// Image returns a bundle for an already-encoded image. The payload must be
// the base64 text encoding of the image bytes: this library never handles
// binary media, since kernel wire formats carry images as base64 strings
// anyway. Returns an error if the payload isn't valid base64 or the MIME
// type isn't an image type this library knows.
func Image(mime string, b64 string) (Bundle, error) {
	switch mime {
	case ImagePNG, ImageJPEG, ImageGIF:
	default:
		return Bundle{}, fmt.Errorf("%q is not a supported image MIME type", mime)
	}

	if b64 == "" {
		return Bundle{}, errors.New("the image payload is empty")
	}

	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		return Bundle{}, fmt.Errorf("the image payload is not base64 text: %v", err)
	}

	return single(mime, b64), nil
}

// PNG is shorthand for Image(ImagePNG, b64).
func PNG(b64 string) (Bundle, error) {
	return Image(ImagePNG, b64)
}

// JPEG is shorthand for Image(ImageJPEG, b64).
func JPEG(b64 string) (Bundle, error) {
	return Image(ImageJPEG, b64)
}

// GIF is shorthand for Image(ImageGIF, b64).
func GIF(b64 string) (Bundle, error) {
	return Image(ImageGIF, b64)
}
