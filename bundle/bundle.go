package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MIME types the library knows how to produce. Frontends are free to support
// a subset of these; a bundle usually carries several so the frontend can
// pick the richest one it can render.
const (
	TextPlain    string = "text/plain"
	TextHTML     string = "text/html"
	TextMarkdown string = "text/markdown"
	ImageSVG     string = "image/svg+xml"
	ImagePNG     string = "image/png"
	ImageJPEG    string = "image/jpeg"
	ImageGIF     string = "image/gif"
	JSON         string = "application/json"
	JavaScript   string = "application/javascript"
	DataResource string = "application/vnd.dataresource+json"
	VegaLite     string = "application/vnd.vegalite.v5+json"
)

// MIME type keys must look like "type/subtype". We don't validate against a
// registry since frontends routinely use vendor types we've never heard of.
var mimePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*/[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*$`)

// Bundle maps MIME type strings to serializable representations of a single
// value. Values are either strings (for text-based types and base64-encoded
// images) or JSON-marshalable structures (for the application/* types).
type Bundle struct {
	Data map[string]interface{}
	// Metadata carries frontend rendering hints keyed by MIME type, e.g.,
	// image dimensions. Often nil.
	Metadata map[string]interface{}
}

// Displayable marks a value that knows how to render itself. The format
// package checks for this before any of its shape-based detections, so a
// type can always override the default rendering of its underlying shape.
type Displayable interface {
	MediaBundle() (Bundle, error)
}

// New returns an empty Bundle ready for Data writes.
func New() Bundle {
	return Bundle{Data: map[string]interface{}{}}
}

// MediaBundle implements Displayable so an already-built Bundle can be
// passed anywhere a displayable value is expected.
func (b Bundle) MediaBundle() (Bundle, error) {
	return b, nil
}

// IsEmpty indicates whether the Bundle carries no representations at all. An
// empty bundle is never useful to a frontend, so callers treat it as an
// authoring mistake.
func (b Bundle) IsEmpty() bool {
	return len(b.Data) == 0
}

// Size returns the approximate serialized footprint of the Bundle in bytes.
// String values are counted directly; structured values are counted via JSON
// marshaling. Used for limit checks and logging, so exactness doesn't matter.
func (b Bundle) Size() int {
	var n int
	for _, v := range b.Data {
		switch val := v.(type) {
		case string:
			n += len(val)
		case []byte:
			n += len(val)
		default:
			j, err := json.Marshal(val)
			// An unmarshalable value contributes nothing. Validate
			// reports these separately.
			if err == nil {
				n += len(j)
			}
		}
	}
	return n
}

// Validate checks that all MIME keys are well formed, that each value can be
// serialized for the wire, and that the Bundle fits within maxBytes (ignored
// when maxBytes is zero). It returns the first problem found.
func (b Bundle) Validate(maxBytes int) error {
	if b.IsEmpty() {
		return errors.New("the bundle contains no representations")
	}

	for k, v := range b.Data {
		if !mimePattern.MatchString(k) {
			return fmt.Errorf("%q is not a well-formed MIME type", k)
		}
		if _, ok := v.(string); ok {
			continue
		}
		if _, err := json.Marshal(v); err != nil {
			return fmt.Errorf("the %v representation can't be serialized: %v", k, err)
		}
	}

	if maxBytes > 0 {
		if s := b.Size(); s > maxBytes {
			return fmt.Errorf(
				"the bundle is %v bytes, over the %v-byte limit",
				s,
				maxBytes,
			)
		}
	}

	return nil
}

// Merge returns a new Bundle containing the representations of both b and
// other. On a MIME type collision, other wins. Metadata maps are merged the
// same way.
func (b Bundle) Merge(other Bundle) Bundle {
	m := Bundle{Data: make(map[string]interface{}, len(b.Data)+len(other.Data))}

	for k, v := range b.Data {
		m.Data[k] = v
	}
	for k, v := range other.Data {
		m.Data[k] = v
	}

	if b.Metadata != nil || other.Metadata != nil {
		m.Metadata = map[string]interface{}{}
		for k, v := range b.Metadata {
			m.Metadata[k] = v
		}
		for k, v := range other.Metadata {
			m.Metadata[k] = v
		}
	}

	return m
}

// MIMETypes returns the bundle's MIME type keys sorted for stable iteration.
func (b Bundle) MIMETypes() []string {
	ks := make([]string, 0, len(b.Data))
	for k := range b.Data {
		ks = append(ks, k)
	}
	// Insertion sort: bundles carry a handful of keys at most.
	for i := 1; i < len(ks); i++ {
		for j := i; j > 0 && ks[j] < ks[j-1]; j-- {
			ks[j], ks[j-1] = ks[j-1], ks[j]
		}
	}
	return ks
}

// String summarizes the bundle for logs, e.g., "text/html+text/plain (312B)".
func (b Bundle) String() string {
	return fmt.Sprintf("%v (%vB)", strings.Join(b.MIMETypes(), "+"), b.Size())
}
