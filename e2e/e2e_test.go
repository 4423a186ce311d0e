package e2e

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/notekit/display/broadcast"
	"github.com/notekit/display/bundle"
	"github.com/notekit/display/storage"
	"github.com/notekit/display/tabular"
	"github.com/notekit/display/userconfig"
)

// hostRecorder plays the part of the host runtime's kernel messaging
// function, collecting everything the library would have put on the wire.
type hostRecorder struct {
	mtx      sync.Mutex
	msgTypes []string
	contents []map[string]interface{}
}

func (h *hostRecorder) send(ctx context.Context, msgType string, content map[string]interface{}) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.msgTypes = append(h.msgTypes, msgType)
	h.contents = append(h.contents, content)
	return nil
}

func (h *hostRecorder) snapshot() ([]string, []map[string]interface{}) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	mt := make([]string, len(h.msgTypes))
	copy(mt, h.msgTypes)
	cs := make([]map[string]interface{}, len(h.contents))
	copy(cs, h.contents)
	return mt, cs
}

const testConfig = `---
display:
    previewRows: "2"
broadcast:
    queueSize: "8"
    displayTTL: "5m"`

// One session's worth of displays, from user config through the broadcast
// loop to the recorded wire messages.
func TestDisplayPipeline(t *testing.T) {
	m, err := userconfig.Parse(bytes.NewBufferString(testConfig))
	if err != nil {
		t.Fatal(err)
	}
	config, err := m.CheckAndSetDefaults()
	if err != nil {
		t.Fatal(err)
	}

	db, err := storage.NewBadgerDB(&storage.KVConfig{
		KeyTTLDuration: config.Broadcast.DisplayTTL,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	host := &hostRecorder{}
	b := broadcast.New(broadcast.Config{
		Send:      host.send,
		Store:     db,
		Limits:    config.Limits(),
		QueueSize: config.Broadcast.QueueSize,
	})

	done := make(chan struct{})
	go func() {
		b.StartLoop(&broadcast.LoopConfig{})
		close(done)
	}()

	frame := tabular.FromRecords([]map[string]interface{}{
		{"city": "Accra", "population": 2600000},
		{"city": "Kumasi", "population": 3600000},
		{"city": "Tamale", "population": 950000},
	})

	if err := b.Queue("plain value", broadcast.DisplayOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Queue(frame, broadcast.DisplayOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Queue(bundle.Markdown("# Results"), broadcast.DisplayOptions{}); err != nil {
		t.Fatal(err)
	}

	b.Close()
	select {
	case <-done:
	case <-time.After(time.Duration(10) * time.Second):
		t.Fatal("the broadcast loop did not drain the queue")
	}

	msgTypes, contents := host.snapshot()
	if len(msgTypes) != 3 {
		t.Fatalf("expected 3 wire messages, got %v", len(msgTypes))
	}
	for i, mt := range msgTypes {
		if mt != broadcast.MsgDisplayData {
			t.Errorf("message %v: expected %v, got %v", i, broadcast.MsgDisplayData, mt)
		}
	}

	// The dataframe message should carry all three representations, with
	// the preview truncated to the configured two rows
	data, ok := contents[1]["data"].(map[string]interface{})
	if !ok {
		t.Fatal("the dataframe message has no data entry")
	}
	for _, mime := range []string{bundle.DataResource, bundle.TextHTML, bundle.TextPlain} {
		if _, ok := data[mime]; !ok {
			t.Errorf("the dataframe message is missing its %v representation", mime)
		}
	}
	h, _ := data[bundle.TextHTML].(string)
	if !strings.Contains(h, "1 more rows") {
		t.Error("the HTML preview should mention the truncated row")
	}

	// Every message needs a transient display ID for the frontend to key
	// its output areas on
	for i, c := range contents {
		tr, ok := c["transient"].(map[string]interface{})
		if !ok {
			t.Fatalf("message %v has no transient entry", i)
		}
		id, _ := tr["display_id"].(string)
		if id == "" {
			t.Errorf("message %v has no display ID", i)
		}
	}
}

// The update path, synchronously: a display followed by an update to the
// same ID, and a rejected update to an unknown ID.
func TestDisplayUpdatePipeline(t *testing.T) {
	db, err := storage.NewBadgerDB(&storage.KVConfig{
		KeyTTLDuration: time.Duration(5) * time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	host := &hostRecorder{}
	b := broadcast.New(broadcast.Config{
		Send:   host.send,
		Store:  db,
		Limits: userconfig.DefaultLimits(),
	})

	ctx := context.Background()

	if _, _, err := b.Display(
		ctx,
		bundle.Text("working..."),
		broadcast.DisplayOptions{DisplayID: "job-1"},
	); err != nil {
		t.Fatal(err)
	}

	if _, _, err := b.Display(
		ctx,
		bundle.Text("finished"),
		broadcast.DisplayOptions{DisplayID: "job-1", Update: true},
	); err != nil {
		t.Fatal(err)
	}

	if _, _, err := b.Display(
		ctx,
		bundle.Text("lost"),
		broadcast.DisplayOptions{DisplayID: "job-99", Update: true},
	); err == nil {
		t.Error("expected an update to an unknown display ID to be rejected")
	}

	msgTypes, contents := host.snapshot()
	if len(msgTypes) != 2 {
		t.Fatalf("expected 2 wire messages, got %v", len(msgTypes))
	}
	if msgTypes[1] != broadcast.MsgUpdateDisplayData {
		t.Errorf("expected an %v message, got %v", broadcast.MsgUpdateDisplayData, msgTypes[1])
	}

	data, _ := contents[1]["data"].(map[string]interface{})
	if data[bundle.TextPlain] != "finished" {
		t.Error("the update message should carry the new bundle")
	}
}
