package format

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/notekit/display/bundle"
	"github.com/notekit/display/tabular"
	"github.com/notekit/display/userconfig"
)

// DataURLer is the shape of a canvas-like value: something that can encode
// its pixels as a data URL.
type DataURLer interface {
	ToDataURL() (string, error)
}

// SpecProvider is the shape of a charting value: something that can emit a
// Vega-Lite specification for itself.
type SpecProvider interface {
	ToSpec() (interface{}, error)
}

// Node is the shape of an HTML or SVG element value: something that can
// serialize its own markup.
type Node interface {
	OuterHTML() string
}

// Matches markup whose first element is an svg tag, allowing leading
// whitespace and comments. Case-insensitive since serializers disagree on
// tag casing.
var svgPattern = regexp.MustCompile(`(?is)^\s*(?:<!--.*?-->\s*)*<svg[\s>/]`)

// Format inspects v's shape and produces its media bundle. The detection
// order is fixed: a value that renders itself always wins, then the
// canvas-like, chart-like, dataframe-like, and element-like shapes, then an
// error value's message, and finally the text/plain (plus, where possible,
// application/json) fallback. First match wins, so a dataframe that also
// has a ToSpec method renders as a chart.
func Format(v interface{}, limits userconfig.Limits) (bundle.Bundle, error) {
	// A nil value still gets a bundle: evaluating an expression to nil in
	// a notebook cell should show something, not fail the cell.
	if v == nil {
		return bundle.Text("<nil>"), nil
	}

	switch val := v.(type) {
	case bundle.Displayable:
		b, err := val.MediaBundle()
		if err != nil {
			return bundle.Bundle{}, fmt.Errorf("the value failed to render itself: %v", err)
		}
		if err := b.Validate(limits.MaxEmbedBytes); err != nil {
			return bundle.Bundle{}, fmt.Errorf("the value rendered an invalid bundle: %v", err)
		}
		return b, nil

	case DataURLer:
		u, err := val.ToDataURL()
		if err != nil {
			return bundle.Bundle{}, fmt.Errorf("the value failed to encode itself as a data URL: %v", err)
		}
		p, err := parseDataURL(u)
		if err != nil {
			return bundle.Bundle{}, err
		}
		if limits.MaxEmbedBytes > 0 && len(p.payload) > limits.MaxEmbedBytes {
			return bundle.Bundle{}, fmt.Errorf(
				"the encoded image is %v bytes, over the %v-byte limit",
				len(p.payload),
				limits.MaxEmbedBytes,
			)
		}
		b := bundle.New()
		b.Data[p.mime] = p.payload
		return b, nil

	case SpecProvider:
		s, err := val.ToSpec()
		if err != nil {
			return bundle.Bundle{}, fmt.Errorf("the value failed to produce a chart spec: %v", err)
		}
		b := bundle.New()
		b.Data[bundle.VegaLite] = s
		if err := b.Validate(limits.MaxEmbedBytes); err != nil {
			return bundle.Bundle{}, fmt.Errorf("the chart spec can't be displayed: %v", err)
		}
		return b, nil

	case tabular.Frame:
		return formatFrame(val, limits), nil

	case Node:
		m := val.OuterHTML()
		if svgPattern.MatchString(m) {
			return bundle.SVG("%v", m), nil
		}
		return bundle.HTML("%v", m), nil

	case error:
		return bundle.Text("%v", val.Error()), nil
	}

	return fallback(v), nil
}

// formatFrame renders a dataframe-like value three ways: the full data
// resource for frontends with a data explorer, an HTML preview table, and a
// plain-text table for everything else.
func formatFrame(f tabular.Frame, limits userconfig.Limits) bundle.Bundle {
	b := bundle.New()
	b.Data[bundle.DataResource] = tabular.DataResource(f)
	b.Data[bundle.TextHTML] = tabular.HTMLTable(f, limits)
	b.Data[bundle.TextPlain] = tabular.TextTable(f, limits)
	return b
}

// fallback renders a value with no recognized shape. Everything gets a
// text/plain rendering; structured values that marshal cleanly also get an
// application/json entry so frontends can offer an expandable view.
func fallback(v interface{}) bundle.Bundle {
	b := bundle.Text("%+v", v)

	if jsonable(v) {
		if _, err := json.Marshal(v); err == nil {
			b.Data[bundle.JSON] = v
		}
	}

	return b
}

// jsonable reports whether v is the kind of value worth representing as
// application/json: a struct, map, slice, or array. Scalars are excluded
// because their JSON form adds nothing over text/plain (and double-quotes
// strings), as are byte slices, which would marshal to opaque base64 text.
func jsonable(v interface{}) bool {
	if _, ok := v.([]byte); ok {
		return false
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
