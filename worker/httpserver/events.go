// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juju/clock"
	"github.com/juju/pubsub/v2"

	"github.com/juju/juju-gui/core/modeldb"
)

const (
	// SnapshotTopic is the topic of the first message sent on an event
	// stream. Its entity is the full modeldb.Snapshot.
	SnapshotTopic = "snapshot"

	writeWait = 10 * time.Second
)

var websocketUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is a message sent on an event stream.
type Event struct {
	Topic  string      `json:"topic"`
	Entity interface{} `json:"entity"`
}

type eventsHandler struct {
	hub        *pubsub.SimpleHub
	db         *modeldb.DB
	logger     Logger
	clock      clock.Clock
	pingPeriod time.Duration
	stop       <-chan struct{}
}

// ServeHTTP implements the http.Handler interface.
func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := websocketUpgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Errorf("problem initiating websocket: %v", err)
		return
	}
	defer socket.Close()

	id := uuid.NewString()
	h.logger.Debugf("event stream %s started for %s", id, req.RemoteAddr)
	defer h.logger.Debugf("event stream %s finished", id)

	closed := h.readUntilClosed(socket)
	events := make(chan Event)
	// Subscribing before taking the snapshot means no change is lost;
	// a change may be seen twice, which reapplies cleanly.
	unsubscribe := h.hub.SubscribeMatch(pubsub.MatchAll, func(topic string, data interface{}) {
		select {
		case events <- Event{Topic: topic, Entity: data}:
		case <-closed:
		case <-h.stop:
		}
	})
	defer unsubscribe()

	if err := h.send(socket, Event{Topic: SnapshotTopic, Entity: h.db.Snapshot()}); err != nil {
		h.logger.Debugf("event stream %s: sending snapshot: %v", id, err)
		return
	}
	// Reset only after a ping.
	pingTimer := h.clock.NewTimer(h.pingPeriod)
	defer pingTimer.Stop()
	for {
		select {
		case <-h.stop:
			deadline := time.Now().Add(writeWait)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping")
			_ = socket.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		case <-closed:
			return
		case <-pingTimer.Chan():
			deadline := time.Now().Add(writeWait)
			if err := socket.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
				// Expected if the other end goes away.
				h.logger.Debugf("event stream %s: failed to write ping: %v", id, err)
				return
			}
			pingTimer.Reset(h.pingPeriod)
		case ev := <-events:
			h.logger.Tracef("event stream %s: topic %q", id, ev.Topic)
			if err := h.send(socket, ev); err != nil {
				h.logger.Debugf("event stream %s: %v", id, err)
				return
			}
		}
	}
}

func (h *eventsHandler) send(socket *websocket.Conn, ev Event) error {
	if err := socket.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return socket.WriteJSON(ev)
}

// readUntilClosed discards incoming messages so control frames are
// processed. The returned channel is closed when the client goes away.
func (h *eventsHandler) readUntilClosed(socket *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := socket.NextReader(); err != nil {
				return
			}
		}
	}()
	return closed
}
