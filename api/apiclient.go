// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/version/v2"

	"github.com/juju/juju-gui/rpc"
	"github.com/juju/juju-gui/rpc/jsoncodec"
	"github.com/juju/juju-gui/rpc/params"
)

var logger = loggo.GetLogger("juju.gui.api")

// ClientVersion is sent to controllers during login.
const ClientVersion = "2.9.0"

// legacyVersion is assumed for 1.x controllers that do not report one.
var legacyVersion = version.MustParse("1.25.0")

// DialOpts holds configuration parameters that control the
// Dialing behavior when connecting to a controller.
type DialOpts struct {
	// Protocol selects the wire dialect.
	Protocol Protocol

	// Timeout is the amount of time to wait for each dial and the
	// login to complete. Zero means no limit beyond the context.
	Timeout time.Duration

	// Scheme is the URL scheme; "wss" unless overridden for tests.
	Scheme string

	// TrackConnections records the stack that opened each network
	// connection and counts those left open. See
	// OpenTrackedConnections.
	TrackConnections bool
}

// DefaultDialOpts returns a DialOpts representing the default
// parameters for contacting a controller.
func DefaultDialOpts() DialOpts {
	return DialOpts{
		Protocol: ProtocolAuto,
		Timeout:  30 * time.Second,
		Scheme:   "wss",
	}
}

// state is the internal implementation of the Connection interface.
type state struct {
	client *rpc.Conn
	addr   string
	legacy bool

	serverVersion  version.Number
	facadeVersions map[string][]int

	broken chan struct{}
	closed chan struct{}
}

// Open establishes a connection to the controller and logs in. Each
// address is tried in turn; within an address, the protocols allowed by
// opts are tried in order.
func Open(ctx context.Context, info *Info, opts DialOpts) (Connection, error) {
	if err := info.Validate(); err != nil {
		return nil, errors.Annotate(err, "validating info for opening an API connection")
	}
	if opts.Protocol == "" {
		opts.Protocol = ProtocolAuto
	}
	if err := opts.Protocol.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if opts.Scheme == "" {
		opts.Scheme = "wss"
	}
	tlsConfig, err := info.tlsConfig()
	if err != nil {
		return nil, errors.Trace(err)
	}
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		TLSClientConfig:  tlsConfig,
		HandshakeTimeout: opts.Timeout,
	}
	if opts.TrackConnections {
		dialer.NetDialContext = wrapDialContext((&net.Dialer{}).DialContext)
	}

	var protocols []bool
	switch opts.Protocol {
	case ProtocolModern:
		protocols = []bool{false}
	case ProtocolLegacy:
		protocols = []bool{true}
	default:
		protocols = []bool{false, true}
	}

	var lastErr error
	for _, addr := range info.Addrs {
		for _, legacy := range protocols {
			st, err := dial(ctx, dialer, addr, info, opts, legacy)
			if err == nil {
				return st, nil
			}
			if errors.IsUnauthorized(err) {
				return nil, errors.Trace(err)
			}
			logger.Debugf("cannot connect to %q (legacy=%v): %v", addr, legacy, err)
			lastErr = err
		}
	}
	return nil, errors.Annotate(lastErr, "unable to connect to API")
}

func apiURL(scheme, addr, modelUUID string, legacy bool) string {
	path := "/model/" + modelUUID + "/api"
	if legacy {
		path = "/environment/" + modelUUID + "/api"
	}
	u := url.URL{Scheme: scheme, Host: addr, Path: path}
	return u.String()
}

func dial(ctx context.Context, dialer *websocket.Dialer, addr string, info *Info, opts DialOpts, legacy bool) (*state, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	target := apiURL(opts.Scheme, addr, info.ModelUUID, legacy)
	logger.Debugf("dialing %q", target)
	ws, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "dialing %q", target)
	}
	client := rpc.NewConn(jsoncodec.NewWebsocket(ws, legacy))
	client.Start()

	st := &state{
		client: client,
		addr:   addr,
		legacy: legacy,
		broken: make(chan struct{}),
		closed: make(chan struct{}),
	}
	if err := st.login(ctx, info); err != nil {
		_ = client.Close()
		return nil, errors.Trace(err)
	}
	go st.heartbeatMonitor()
	return st, nil
}

func (s *state) login(ctx context.Context, info *Info) error {
	if s.legacy {
		var result params.LegacyLoginResult
		err := s.APICall(ctx, "Admin", 0, "", "Login", &params.LegacyLoginRequest{
			AuthTag:     info.Tag.String(),
			Credentials: info.Password,
		}, &result)
		if err != nil {
			return errors.Trace(err)
		}
		s.facadeVersions = make(map[string][]int, len(result.Facades))
		for _, facade := range result.Facades {
			s.facadeVersions[facade.Name] = facade.Versions
		}
		s.serverVersion = legacyVersion
		if result.ServerVersion != "" {
			if v, err := version.Parse(result.ServerVersion); err == nil {
				s.serverVersion = v
			}
		}
		return nil
	}

	var result params.LoginResult
	err := s.APICall(ctx, "Admin", 3, "", "Login", &params.LoginRequest{
		AuthTag:       info.Tag.String(),
		Credentials:   info.Password,
		ClientVersion: ClientVersion,
	}, &result)
	if err != nil {
		return errors.Trace(err)
	}
	s.facadeVersions = make(map[string][]int, len(result.Facades))
	for _, facade := range result.Facades {
		s.facadeVersions[facade.Name] = facade.Versions
	}
	v, err := version.Parse(result.ServerVersion)
	if err != nil {
		return errors.Annotatef(err, "parsing server version %q", result.ServerVersion)
	}
	s.serverVersion = v
	return nil
}

// heartbeatMonitor closes the broken channel when the underlying
// connection dies.
func (s *state) heartbeatMonitor() {
	select {
	case <-s.client.Dead():
		close(s.broken)
	case <-s.closed:
	}
}

// APICall places a call to the remote machine.
func (s *state) APICall(ctx context.Context, facade string, version int, id, method string, args, response interface{}) error {
	err := s.client.Call(ctx, rpc.Request{
		Type:    facade,
		Version: version,
		Id:      id,
		Action:  method,
	}, args, response)
	if err == nil {
		return nil
	}
	return errors.Trace(params.TranslateWellKnownError(err))
}

// BestFacadeVersion compares the versions of facades that we know about,
// and the versions available from the server, and reports back what
// version is the 'best available' to use.
func (s *state) BestFacadeVersion(facade string) int {
	return bestVersion(facadeVersions[facade], s.facadeVersions[facade])
}

// Addr returns the address of the controller.
func (s *state) Addr() string {
	return s.addr
}

// ServerVersion holds the version of the controller that we
// are connected to.
func (s *state) ServerVersion() version.Number {
	return s.serverVersion
}

// IsLegacy reports whether this connection speaks the 1.x dialect.
func (s *state) IsLegacy() bool {
	return s.legacy
}

// Broken implements Connection.
func (s *state) Broken() <-chan struct{} {
	return s.broken
}

// Close closes the connection.
func (s *state) Close() error {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	err := s.client.Close()
	if err != nil && !strings.Contains(err.Error(), "already closed") {
		return errors.Trace(err)
	}
	return nil
}

func (s *state) String() string {
	return fmt.Sprintf("api connection to %s (legacy=%v)", s.addr, s.legacy)
}
