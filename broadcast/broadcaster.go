package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/notekit/display/bundle"
	"github.com/notekit/display/format"
	"github.com/notekit/display/storage"
	"github.com/notekit/display/userconfig"
)

// Message types understood by notebook frontends. These are the only two the
// library ever sends.
const (
	MsgDisplayData       string = "display_data"
	MsgUpdateDisplayData string = "update_display_data"
)

// SendFunc is the host-provided kernel messaging function. The content map
// follows the display_data message schema: a "data" entry holding the MIME
// bundle, a "metadata" entry, and a "transient" entry holding the display
// ID. Implementations are expected to honor ctx cancellation.
type SendFunc func(ctx context.Context, msgType string, content map[string]interface{}) error

// Config collects everything a Broadcaster needs. Only Limits is required;
// a Broadcaster with no Send function still formats values, and a
// Broadcaster with no Store falls back to a no-op store.
type Config struct {
	// The host messaging function, or nil when the host provides none
	Send SendFunc
	// Tracks the last bundle sent per display ID
	Store storage.KeyValue
	// Rendering limits, usually from userconfig
	Limits userconfig.Limits
	// Capacity of the asynchronous queue. Zero means the default from
	// userconfig applies.
	QueueSize int
}

// DisplayOptions modify a single Display call.
type DisplayOptions struct {
	// Display ID to attach, for later updates. Empty means a generated
	// one.
	DisplayID string
	// Send update_display_data instead of display_data. Requires a
	// DisplayID this session has already used.
	Update bool
	// The value is already a media bundle; skip shape detection
	Raw bool
}

// Broadcaster formats values and pushes the resulting bundles through the
// host messaging function, if one exists.
type Broadcaster struct {
	send   SendFunc
	store  storage.KeyValue
	limits userconfig.Limits
	queue  chan job
}

// New builds a Broadcaster from c, filling in the pieces c leaves out.
func New(c Config) *Broadcaster {
	st := c.Store
	if st == nil {
		st = &storage.NoOpDB{}
	}

	qs := c.QueueSize
	if qs <= 0 {
		m, _ := (&userconfig.Meta{}).CheckAndSetDefaults()
		qs = m.Broadcast.QueueSize
	}

	return &Broadcaster{
		send:   c.Send,
		store:  st,
		limits: c.Limits,
		queue:  make(chan job, qs),
	}
}

// HasSend indicates whether the host supplied a messaging function. Callers
// use this to decide whether a Display result still needs to reach the
// frontend some other way.
func (b *Broadcaster) HasSend() bool {
	return b.send != nil
}

// Display formats v into a media bundle and, when a host messaging function
// is present, sends it as a display_data (or, with opts.Update, an
// update_display_data) message. It returns the bundle and the display ID it
// traveled under. Without a messaging function the bundle is returned for
// the host to pick up as the cell result, and no display ID is assigned.
func (b *Broadcaster) Display(ctx context.Context, v interface{}, opts DisplayOptions) (bundle.Bundle, string, error) {
	mb, err := b.resolve(v, opts)
	if err != nil {
		return bundle.Bundle{}, "", err
	}

	if b.send == nil {
		if opts.Update {
			return bundle.Bundle{}, "", errors.New(
				"can't update a display without a host messaging function",
			)
		}
		return mb, "", nil
	}

	id := opts.DisplayID
	if id == "" {
		if opts.Update {
			return bundle.Bundle{}, "", errors.New(
				"an update needs the display ID of an earlier display",
			)
		}
		id = uuid.NewString()
	}

	msgType := MsgDisplayData
	if opts.Update {
		msgType = MsgUpdateDisplayData
		// Reject updates to IDs this session never used. The frontend
		// would silently drop them, which is much harder to debug than
		// an error here.
		if _, err := b.store.Read([]byte(id)); err != nil {
			return bundle.Bundle{}, "", fmt.Errorf(
				"can't update display ID %v: %v",
				id,
				err,
			)
		}
	}

	content := map[string]interface{}{
		"data":      mb.Data,
		"metadata":  metadataOrEmpty(mb),
		"transient": map[string]interface{}{"display_id": id},
	}

	if err := b.send(ctx, msgType, content); err != nil {
		return bundle.Bundle{}, "", fmt.Errorf("the host messaging function failed: %v", err)
	}

	log.Debug().
		Str("msgType", msgType).
		Str("displayID", id).
		Str("bundleSize", units.HumanSize(float64(mb.Size()))).
		Msg("sent a display message")

	if err := b.record(id, mb); err != nil {
		// The message is already on the wire, so a bookkeeping failure
		// shouldn't fail the cell
		log.Error().Err(err).Msg("error recording a display ID")
	}

	return mb, id, nil
}

// resolve produces the bundle for v, honoring the Raw option.
func (b *Broadcaster) resolve(v interface{}, opts DisplayOptions) (bundle.Bundle, error) {
	if !opts.Raw {
		return format.Format(v, b.limits)
	}

	mb, ok := v.(bundle.Bundle)
	if !ok {
		return bundle.Bundle{}, errors.New(
			"the raw option requires an already-built media bundle",
		)
	}
	if err := mb.Validate(b.limits.MaxEmbedBytes); err != nil {
		return bundle.Bundle{}, fmt.Errorf("the raw bundle can't be displayed: %v", err)
	}
	return mb, nil
}

// record stores the bundle as the latest for the display ID.
func (b *Broadcaster) record(id string, mb bundle.Bundle) error {
	val, err := json.Marshal(mb.Data)
	if err != nil {
		return fmt.Errorf("can't serialize the bundle for the display store: %v", err)
	}

	return b.store.Put(storage.KVEntry{
		Key:   []byte(id),
		Value: val,
	})
}

// metadataOrEmpty avoids sending a null metadata entry, which some
// frontends choke on.
func metadataOrEmpty(mb bundle.Bundle) map[string]interface{} {
	if mb.Metadata == nil {
		return map[string]interface{}{}
	}
	return mb.Metadata
}
