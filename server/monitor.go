package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"ocpinode/event"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"
	"ocpinode/types"
	"ocpinode/utility"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// monitorEvent One audit line pushed to a live monitor socket: the exchange
// reduced to its correlation and outcome.
type monitorEvent struct {
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	RequestId     string          `json:"requestId"`
	CorrelationId string          `json:"correlationId"`
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message,omitempty"`
	Party         string          `json:"party,omitempty"`
	Timestamp     *types.DateTime `json:"timestamp"`
}

// handleMonitor streams every observed exchange to the connected socket.
// Writes go through a buffered channel with a single writer goroutine; a
// slow consumer loses events rather than stalling the dispatch.
func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.notifier == nil {
		http.Error(w, "monitor unavailable", http.StatusServiceUnavailable)
		return
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("monitor upgrade failed", err)
		}
		return
	}
	remote := r.RemoteAddr
	if s.logger != nil {
		s.logger.Debug(fmt.Sprintf("monitor connected from %s", remote))
	}
	counters.ObserveMonitorConnections(remote, 1)

	feed := newMonitorFeed(100)
	id := s.notifier.Subscribe(func(_ context.Context, exchange *event.Exchange) (interface{}, error) {
		data, err := json.Marshal(reduceExchange(exchange))
		if err != nil {
			return nil, err
		}
		feed.push(data)
		return nil, nil
	})

	go func() {
		for data := range feed.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	go s.monitorReader(conn, remote, id, feed)
}

// monitorFeed The outgoing buffer of one monitor connection. A dispatch that
// snapshotted the subscriber before Unsubscribe may still push after the
// reader shuts the connection down, so push and close share a mutex and
// pushes after close are dropped instead of hitting a closed channel.
type monitorFeed struct {
	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newMonitorFeed(size int) *monitorFeed {
	return &monitorFeed{send: make(chan []byte, size)}
}

// push queues data for the writer; a full buffer or a closed feed drops it.
func (f *monitorFeed) push(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.send <- data:
	default:
	}
}

func (f *monitorFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.send)
}

// CallReadLog is the only pull command a monitor client can send; anything
// else on the socket is ignored.
const CallReadLog = "ReadLog"

func (s *Server) monitorReader(conn *websocket.Conn, remote string, id int, feed *monitorFeed) {
	for {
		_, payload, err := conn.ReadMessage()
		if err == nil {
			s.handleMonitorCall(remote, string(payload), feed)
			continue
		}
		if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			if s.logger != nil {
				s.logger.Debug(fmt.Sprintf("monitor %s leaving", remote))
			}
		}
		s.notifier.Unsubscribe(id)
		feed.close()
		counters.ObserveMonitorConnections(remote, 0)
		if err = conn.Close(); err != nil && s.logger != nil {
			s.logger.Warn(fmt.Sprintf("error while closing monitor socket %s %s", remote, err))
		}
		return
	}
}

// handleMonitorCall answers a pull command received on the monitor socket.
func (s *Server) handleMonitorCall(remote, call string, feed *monitorFeed) {
	if s.logger != nil {
		s.logger.Debug(fmt.Sprintf("monitor call %s from remote %s", utility.Truncate(call, 32), remote))
	}
	if call != CallReadLog || s.journal == nil {
		return
	}
	data, err := s.journal.ReadLog()
	if err != nil {
		if s.logger != nil {
			s.logger.Error("read log error", err)
		}
		return
	}
	byteData, err := json.Marshal(data)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("encoding log data failed", err)
		}
		return
	}
	feed.push(byteData)
}

func reduceExchange(exchange *event.Exchange) *monitorEvent {
	reduced := &monitorEvent{}
	if exchange.Request != nil {
		reduced.Method = exchange.Request.Method
		reduced.Path = exchange.Request.Path
		reduced.Party = exchange.Request.EMSPId()
	}
	if exchange.Response != nil {
		reduced.RequestId = exchange.Response.RequestId
		reduced.CorrelationId = exchange.Response.CorrelationId
		reduced.StatusCode = exchange.Response.StatusCode
		reduced.StatusMessage = exchange.Response.StatusMessage
		reduced.Timestamp = exchange.Response.Timestamp
	}
	if reduced.StatusCode == 0 {
		reduced.StatusCode = ocpi.StatusNotParsed
	}
	return reduced
}
