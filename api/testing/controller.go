// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package testing provides an in-process controller that speaks just
// enough of the Juju API to log in and stream deltas.
package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/juju/juju-gui/rpc/params"
)

// Controller is a fake controller serving the Admin, Client and
// AllWatcher facades. Deltas queued with Send are returned from the
// next AllWatcher.Next call on any connection.
type Controller struct {
	ModelUUID     string
	Password      string
	ServerVersion string

	// Legacy makes the controller serve only the 1.x endpoint and
	// envelope format.
	Legacy bool

	server  *httptest.Server
	batches chan []json.RawMessage

	mu       sync.Mutex
	logins   int
	watchers int
	stopped  int
	nextErr  *params.Error
}

// NewController starts a controller for the given model. Close must be
// called to release it.
func NewController(modelUUID string, legacy bool) *Controller {
	c := &Controller{
		ModelUUID:     modelUUID,
		Password:      "secret",
		ServerVersion: "2.9.42",
		Legacy:        legacy,
		batches:       make(chan []json.RawMessage, 100),
	}
	if legacy {
		c.ServerVersion = ""
	}
	r := mux.NewRouter()
	if legacy {
		r.HandleFunc("/environment/{uuid}/api", c.serveAPI)
	} else {
		r.HandleFunc("/model/{uuid}/api", c.serveAPI)
	}
	c.server = httptest.NewServer(r)
	return c
}

// Addr returns the host:port the controller listens on.
func (c *Controller) Addr() string {
	return strings.TrimPrefix(c.server.URL, "http://")
}

// Close shuts the controller down.
func (c *Controller) Close() {
	c.server.CloseClientConnections()
	c.server.Close()
}

// Send queues a batch of deltas.
func (c *Controller) Send(deltas ...params.Delta) {
	batch := make([]json.RawMessage, len(deltas))
	for i, d := range deltas {
		data, err := json.Marshal(d)
		if err != nil {
			panic(err)
		}
		batch[i] = data
	}
	c.batches <- batch
}

// SendRaw queues a batch of deltas given as raw JSON, which need not be
// well formed deltas.
func (c *Controller) SendRaw(deltas ...string) {
	batch := make([]json.RawMessage, len(deltas))
	for i, d := range deltas {
		batch[i] = json.RawMessage(d)
	}
	c.batches <- batch
}

// FailNext makes the next AllWatcher.Next call fail with the given
// error.
func (c *Controller) FailNext(err *params.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextErr = err
}

// Logins returns the number of successful logins.
func (c *Controller) Logins() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logins
}

// Watchers returns the number of watchers created.
func (c *Controller) Watchers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watchers
}

// Stopped returns the number of watchers stopped.
func (c *Controller) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

type request struct {
	RequestId       uint64          `json:"request-id"`
	LegacyRequestId uint64          `json:"RequestId"`
	Type            string          `json:"type"`
	Version         int             `json:"version"`
	Id              string          `json:"id"`
	Request         string          `json:"request"`
	Params          json.RawMessage `json:"params"`
}

type session struct {
	c       *Controller
	conn    *websocket.Conn
	writeMu sync.Mutex
	done    chan struct{}

	mu       sync.Mutex
	loggedIn bool
	watchers map[string]chan struct{}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (c *Controller) serveAPI(w http.ResponseWriter, req *http.Request) {
	if mux.Vars(req)["uuid"] != c.ModelUUID {
		http.Error(w, "model not found", http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	s := &session{
		c:        c,
		conn:     conn,
		done:     make(chan struct{}),
		watchers: make(map[string]chan struct{}),
	}
	defer func() {
		close(s.done)
		_ = conn.Close()
	}()
	for {
		var r request
		if err := conn.ReadJSON(&r); err != nil {
			return
		}
		if r.RequestId == 0 {
			r.RequestId = r.LegacyRequestId
		}
		go s.handle(r)
	}
}

func (s *session) handle(r request) {
	result, perr := s.dispatch(r)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	msg := map[string]interface{}{}
	if s.c.Legacy {
		msg["RequestId"] = r.RequestId
		if perr != nil {
			msg["Error"] = perr.Message
			msg["ErrorCode"] = perr.Code
		} else {
			msg["Response"] = result
		}
	} else {
		msg["request-id"] = r.RequestId
		if perr != nil {
			msg["error"] = perr.Message
			msg["error-code"] = perr.Code
		} else {
			msg["response"] = result
		}
	}
	_ = s.conn.WriteJSON(msg)
}

func (s *session) dispatch(r request) (interface{}, *params.Error) {
	key := r.Type + "." + r.Request
	if key == "Admin.Login" {
		return s.login(r)
	}
	s.mu.Lock()
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if !loggedIn {
		return nil, &params.Error{Message: "not logged in", Code: params.CodeUnauthorized}
	}
	switch key {
	case "Client.WatchAll":
		return s.watchAll()
	case "AllWatcher.Next":
		return s.next(r.Id)
	case "AllWatcher.Stop":
		return s.stop(r.Id)
	}
	return nil, &params.Error{
		Message: fmt.Sprintf("no such request - method %s(%d).%s is not implemented", r.Type, r.Version, r.Request),
	}
}

func (s *session) login(r request) (interface{}, *params.Error) {
	var creds struct {
		AuthTag     string `json:"auth-tag"`
		Credentials string `json:"credentials"`
		Password    string `json:"Password"`
	}
	if err := json.Unmarshal(r.Params, &creds); err != nil {
		return nil, &params.Error{Message: err.Error(), Code: params.CodeBadRequest}
	}
	password := creds.Credentials
	if s.c.Legacy {
		password = creds.Password
	}
	if password != s.c.Password {
		return nil, &params.Error{Message: "invalid entity name or password", Code: params.CodeUnauthorized}
	}
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
	s.c.mu.Lock()
	s.c.logins++
	s.c.mu.Unlock()

	if s.c.Legacy {
		return params.LegacyLoginResult{
			EnvironTag:    "environment-" + s.c.ModelUUID,
			ServerVersion: s.c.ServerVersion,
			Facades: []params.LegacyFacadeVersions{
				{Name: "Client", Versions: []int{0}},
				{Name: "AllWatcher", Versions: []int{0}},
			},
		}, nil
	}
	return params.LoginResult{
		ModelTag:      "model-" + s.c.ModelUUID,
		ServerVersion: s.c.ServerVersion,
		Facades: []params.FacadeVersions{
			{Name: "Client", Versions: []int{1, 2}},
			{Name: "AllWatcher", Versions: []int{1}},
		},
	}, nil
}

func (s *session) watchAll() (interface{}, *params.Error) {
	s.c.mu.Lock()
	s.c.watchers++
	id := fmt.Sprint(s.c.watchers)
	s.c.mu.Unlock()

	s.mu.Lock()
	s.watchers[id] = make(chan struct{})
	s.mu.Unlock()
	if s.c.Legacy {
		return map[string]string{"AllWatcherId": id}, nil
	}
	return params.AllWatcherId{WatcherId: id}, nil
}

func (s *session) next(id string) (interface{}, *params.Error) {
	s.mu.Lock()
	stop, ok := s.watchers[id]
	s.mu.Unlock()
	if !ok {
		return nil, &params.Error{Message: "unknown watcher id", Code: params.CodeNotFound}
	}

	s.c.mu.Lock()
	nextErr := s.c.nextErr
	s.c.nextErr = nil
	s.c.mu.Unlock()
	if nextErr != nil {
		return nil, nextErr
	}

	select {
	case deltas := <-s.c.batches:
		if s.c.Legacy {
			return map[string]interface{}{"Deltas": deltas}, nil
		}
		return map[string]interface{}{"deltas": deltas}, nil
	case <-stop:
		return nil, &params.Error{Message: "watcher was stopped", Code: params.CodeStopped}
	case <-s.done:
		return nil, &params.Error{Message: "connection closed", Code: params.CodeStopped}
	}
}

func (s *session) stop(id string) (interface{}, *params.Error) {
	s.mu.Lock()
	stop, ok := s.watchers[id]
	delete(s.watchers, id)
	s.mu.Unlock()
	if !ok {
		return nil, &params.Error{Message: "unknown watcher id", Code: params.CodeNotFound}
	}
	close(stop)
	s.c.mu.Lock()
	s.c.stopped++
	s.c.mu.Unlock()
	return nil, nil
}
