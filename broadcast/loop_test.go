package broadcast

import (
	"testing"
	"time"

	"github.com/notekit/display/bundle"
	"github.com/notekit/display/userconfig"
)

func TestLoopDrainsQueueInOrder(t *testing.T) {
	r := &recorder{}
	b := New(Config{
		Send:   r.send,
		Store:  testStore(t),
		Limits: userconfig.DefaultLimits(),
	})

	if err := b.Queue("first", DisplayOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Queue("second", DisplayOptions{}); err != nil {
		t.Fatal(err)
	}
	b.Close()

	done := make(chan struct{})
	go func() {
		b.StartLoop(&LoopConfig{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Duration(5) * time.Second):
		t.Fatal("the loop did not drain a closed queue")
	}

	msgs := r.recorded()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", len(msgs))
	}
	if msgs[0].content["data"].(map[string]interface{})[bundle.TextPlain] != "first" {
		t.Error("queued displays should be sent in arrival order")
	}
}

func TestLoopReportsErrors(t *testing.T) {
	b := New(Config{
		Send:   (&recorder{}).send,
		Store:  testStore(t),
		Limits: userconfig.DefaultLimits(),
	})

	// An update to an ID nobody has used fails at send time
	if err := b.Queue("x", DisplayOptions{DisplayID: "nope", Update: true}); err != nil {
		t.Fatal(err)
	}
	b.Close()

	ec := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		b.StartLoop(&LoopConfig{ErrCh: ec})
		close(done)
	}()

	select {
	case err := <-ec:
		if err == nil {
			t.Error("expected a non-nil error from the loop")
		}
	case <-time.After(time.Duration(5) * time.Second):
		t.Fatal("the loop never reported the send error")
	}
	<-done
}

func TestLoopStops(t *testing.T) {
	b := New(Config{Limits: userconfig.DefaultLimits()})

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		b.StartLoop(&LoopConfig{StopCh: stop})
		close(done)
	}()

	stop <- struct{}{}

	select {
	case <-done:
	case <-time.After(time.Duration(5) * time.Second):
		t.Fatal("the loop did not stop")
	}
}

func TestQueueFull(t *testing.T) {
	b := New(Config{
		Limits:    userconfig.DefaultLimits(),
		QueueSize: 1,
	})

	if err := b.Queue("fits", DisplayOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Queue("doesn't", DisplayOptions{}); err == nil {
		t.Error("expected an error once the queue is full")
	}
}
