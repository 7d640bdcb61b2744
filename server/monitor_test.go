package server

import (
	"sync"
	"testing"
)

// A dispatch holding a snapshot of the subscriber list may deliver after the
// reader tore the connection down. Late pushes must be dropped, never panic.
func TestMonitorFeedDropsPushAfterClose(t *testing.T) {
	for i := 0; i < 100; i++ {
		feed := newMonitorFeed(4)
		var wg sync.WaitGroup
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 50; k++ {
					feed.push([]byte("event"))
				}
			}()
		}
		feed.close()
		wg.Wait()
		feed.push([]byte("late"))
		if _, ok := <-feed.send; ok {
			// drain whatever landed before close, the channel must end closed
			for range feed.send {
			}
		}
	}
}

func TestMonitorFeedCloseIsIdempotent(t *testing.T) {
	feed := newMonitorFeed(1)
	feed.close()
	feed.close()
	if _, ok := <-feed.send; ok {
		t.Error("expected channel closed after close")
	}
}

func TestMonitorFeedDropsWhenFull(t *testing.T) {
	feed := newMonitorFeed(1)
	feed.push([]byte("first"))
	feed.push([]byte("second"))
	data := <-feed.send
	if string(data) != "first" {
		t.Errorf("expected first queued event, got %s", data)
	}
	select {
	case extra := <-feed.send:
		t.Errorf("expected overflow dropped, got %s", extra)
	default:
	}
}
