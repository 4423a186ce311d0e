package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/notekit/display/broadcast"
	"github.com/notekit/display/bundle"
	"github.com/notekit/display/userconfig"
)

func testBroadcaster() *broadcast.Broadcaster {
	return broadcast.New(broadcast.Config{
		Limits: userconfig.DefaultLimits(),
	})
}

func TestRunPrintsOneMIMEType(t *testing.T) {
	in := bytes.NewBufferString(`"hello"`)
	var out bytes.Buffer

	if err := run(in, &out, testBroadcaster(), bundle.TextPlain, false); err != nil {
		t.Fatal(err)
	}

	if out.String() != "hello\n" {
		t.Errorf("expected the string to print verbatim, got %q", out.String())
	}
}

func TestRunStreamsMultipleValues(t *testing.T) {
	in := bytes.NewBufferString(`"one"
"two"`)
	var out bytes.Buffer

	if err := run(in, &out, testBroadcaster(), bundle.TextPlain, false); err != nil {
		t.Fatal(err)
	}

	if out.String() != "one\ntwo\n" {
		t.Errorf("expected one line per input value, got %q", out.String())
	}
}

func TestRunTableFlag(t *testing.T) {
	in := bytes.NewBufferString(
		`[{"name":"Accra","population":2600000},{"name":"Kumasi","population":3600000}]`,
	)
	var out bytes.Buffer

	if err := run(in, &out, testBroadcaster(), bundle.TextPlain, true); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"name", "population", "Accra", "Kumasi"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected the text table to contain %q, got %q", want, out.String())
		}
	}
}

func TestRunRejectsMissingMIMEType(t *testing.T) {
	in := bytes.NewBufferString(`"hello"`)
	var out bytes.Buffer

	err := run(in, &out, testBroadcaster(), bundle.ImagePNG, false)
	if err == nil {
		t.Fatal("expected an error for a representation the bundle lacks")
	}
	if !strings.Contains(err.Error(), bundle.ImagePNG) {
		t.Errorf("the error should name the missing MIME type, got %q", err.Error())
	}
}

func TestRunRejectsBadJSON(t *testing.T) {
	in := bytes.NewBufferString(`{not json`)
	var out bytes.Buffer

	if err := run(in, &out, testBroadcaster(), "", false); err == nil {
		t.Fatal("expected an error for undecodable input")
	}
}

func TestFrameIfRecords(t *testing.T) {
	cases := []struct {
		description string
		v           interface{}
		upgraded    bool
	}{
		{
			description: "array of objects becomes a frame",
			v: []interface{}{
				map[string]interface{}{"a": float64(1)},
			},
			upgraded: true,
		},
		{
			description: "array of scalars passes through",
			v:           []interface{}{float64(1), float64(2)},
			upgraded:    false,
		},
		{
			description: "a lone object passes through",
			v:           map[string]interface{}{"a": float64(1)},
			upgraded:    false,
		},
		{
			description: "an empty array passes through",
			v:           []interface{}{},
			upgraded:    false,
		},
	}

	for _, tc := range cases {
		out := frameIfRecords(tc.v)
		_, isFrame := out.(interface {
			Records() []map[string]interface{}
		})
		if isFrame != tc.upgraded {
			t.Errorf("%v: expected upgraded=%v, got %v", tc.description, tc.upgraded, isFrame)
		}
	}
}
