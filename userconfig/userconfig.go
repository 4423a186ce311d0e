package userconfig

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alecthomas/units"
	yaml "gopkg.in/yaml.v2"
)

// Keys inserted into the display store at one point in a kernel session
// should outlive any plausible notebook editing pause, but not the process
// itself. 12 hours is a failsafe so a long-lived kernel doesn't accumulate
// display records without bound.
const defaultDisplayTTL = time.Duration(12) * time.Hour

// Preview tables show this many rows unless the user says otherwise. Matches
// the head-of-dataframe convention most tabular tooling uses.
const defaultPreviewRows = 10

// Embedded media beyond this size is almost certainly an authoring mistake
// (e.g., passing a full-resolution screenshot through a text protocol), and
// some frontends silently drop oversized messages.
const defaultMaxEmbedSize = 8 * units.MiB

// Meta represents all current config options that the library can use, i.e.,
// after validation and parsing.
type Meta struct {
	Display   Display   `yaml:"display"`
	Broadcast Broadcast `yaml:"broadcast"`
}

// Display contains config options that apply to how values are rendered
// into media bundles.
type Display struct {
	// Number of dataframe rows included in a preview table
	PreviewRows int
	// Number of dataframe columns included in a preview table. Zero
	// means all columns.
	PreviewCols int
	// Upper bound on the serialized size of a single bundle
	MaxEmbedSize units.Base2Bytes
}

// Broadcast contains config options for the asynchronous path that pushes
// bundles to the host messaging function.
type Broadcast struct {
	// Capacity of the outgoing bundle queue
	QueueSize int
	// How long a display ID stays valid for updates
	DisplayTTL time.Duration
}

// Limits is the subset of the configuration that the rendering packages
// consume. It deals in plain ints so those packages don't need to know
// about the units library.
type Limits struct {
	PreviewRows   int
	PreviewCols   int
	MaxEmbedBytes int
}

// UnmarshalYAML parses the user-provided display section, returning any
// parsing errors.
func (d *Display) UnmarshalYAML(unmarshal func(interface{}) error) error {
	v := make(map[string]string)
	err := unmarshal(&v)

	if err != nil {
		return fmt.Errorf("can't parse the display config: %v", err)
	}

	if r, ok := v["previewRows"]; ok {
		n, err := strconv.Atoi(r)
		if err != nil || n < 0 {
			return fmt.Errorf("previewRows must be a non-negative integer, not %q", r)
		}
		d.PreviewRows = n
	}

	if c, ok := v["previewCols"]; ok {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			return fmt.Errorf("previewCols must be a non-negative integer, not %q", c)
		}
		d.PreviewCols = n
	}

	if s, ok := v["maxEmbedSize"]; ok {
		// Accept human-readable sizes like "8MiB" or "512KiB"
		b, err := units.ParseBase2Bytes(s)
		if err != nil {
			return fmt.Errorf("can't parse maxEmbedSize as a size: %v", err)
		}
		if b < 0 {
			return fmt.Errorf("maxEmbedSize can't be negative")
		}
		d.MaxEmbedSize = b
	}

	return nil
}

// UnmarshalYAML parses the user-provided broadcast section, returning any
// parsing errors.
func (b *Broadcast) UnmarshalYAML(unmarshal func(interface{}) error) error {
	v := make(map[string]string)
	err := unmarshal(&v)

	if err != nil {
		return fmt.Errorf("can't parse the broadcast config: %v", err)
	}

	if q, ok := v["queueSize"]; ok {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return fmt.Errorf("queueSize must be a positive integer, not %q", q)
		}
		b.QueueSize = n
	}

	if d, ok := v["displayTTL"]; ok {
		pd, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf(
				"can't parse the user-provided display TTL as a duration: %v",
				err,
			)
		}
		if pd <= 0 {
			return fmt.Errorf("displayTTL must be a positive duration")
		}
		b.DisplayTTL = pd
	}

	return nil
}

// CheckAndSetDefaults validates m and either returns a copy of m with
// default settings applied or returns an error due to an invalid
// configuration. Every field is optional, since the library should be
// usable with a zero-value Meta.
func (m *Meta) CheckAndSetDefaults() (Meta, error) {
	c := *m

	if c.Display.PreviewRows == 0 {
		c.Display.PreviewRows = defaultPreviewRows
	}
	if c.Display.MaxEmbedSize == 0 {
		c.Display.MaxEmbedSize = defaultMaxEmbedSize
	}
	if c.Broadcast.QueueSize == 0 {
		c.Broadcast.QueueSize = 32
	}
	if c.Broadcast.DisplayTTL == 0 {
		c.Broadcast.DisplayTTL = defaultDisplayTTL
	}

	return c, nil
}

// Limits extracts the rendering limits from the configuration. Call this on
// the result of CheckAndSetDefaults, not on raw user input.
func (m Meta) Limits() Limits {
	return Limits{
		PreviewRows:   m.Display.PreviewRows,
		PreviewCols:   m.Display.PreviewCols,
		MaxEmbedBytes: int(m.Display.MaxEmbedSize),
	}
}

// DefaultLimits returns the rendering limits used when no configuration is
// supplied at all.
func DefaultLimits() Limits {
	m, _ := (&Meta{}).CheckAndSetDefaults()
	return m.Limits()
}

// Parse generates usable configurations from possibly arbitrary user input.
// An error indicates a problem with parsing or validation. The Reader r can
// be either JSON or YAML.
func Parse(r io.Reader) (*Meta, error) {
	var m Meta
	err := yaml.NewDecoder(r).Decode(&m)
	if err != nil && err != io.EOF {
		return &Meta{}, fmt.Errorf("can't read the config file as YAML: %v", err)
	}

	return &m, nil
}
