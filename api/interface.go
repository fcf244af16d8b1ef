// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/version/v2"

	"github.com/juju/juju-gui/api/base"
)

// Protocol selects the wire dialect used to talk to a controller.
type Protocol string

const (
	// ProtocolAuto tries the modern protocol first and falls back to
	// the legacy one.
	ProtocolAuto Protocol = "auto"

	// ProtocolModern speaks to Juju 2.x and later controllers.
	ProtocolModern Protocol = "modern"

	// ProtocolLegacy speaks to Juju 1.x controllers.
	ProtocolLegacy Protocol = "legacy"
)

// Validate returns an error if the protocol is not known.
func (p Protocol) Validate() error {
	switch p {
	case ProtocolAuto, ProtocolModern, ProtocolLegacy:
		return nil
	}
	return errors.NotValidf("protocol %q", p)
}

// Info encapsulates information about a controller to connect to.
type Info struct {
	// Addrs holds the addresses of the controllers.
	Addrs []string

	// ModelUUID is the UUID of the model to watch.
	ModelUUID string

	// Tag holds the name of the entity that is connecting.
	Tag names.Tag

	// Password holds the password for the entity that is connecting.
	Password string

	// CACert holds the CA certificate that will be used
	// to validate the controller's certificate, in PEM format.
	CACert string

	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool
}

// Validate validates the API info.
func (info *Info) Validate() error {
	if len(info.Addrs) == 0 {
		return errors.NotValidf("missing addresses")
	}
	if info.ModelUUID == "" {
		return errors.NotValidf("missing model UUID")
	}
	if info.Tag == nil {
		return errors.NotValidf("missing tag")
	}
	return nil
}

func (info *Info) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		InsecureSkipVerify: info.InsecureSkipVerify,
	}
	if info.CACert != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(info.CACert)) {
			return nil, errors.NotValidf("CA certificate")
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// Connection represents a connection to a Juju controller.
type Connection interface {
	base.APICaller

	// Addr returns the address used to connect to the controller.
	Addr() string

	// ServerVersion returns the version reported by the controller
	// during login.
	ServerVersion() version.Number

	// IsLegacy reports whether the connection speaks the 1.x dialect.
	IsLegacy() bool

	// Broken returns a channel that is closed when the connection
	// dies.
	Broken() <-chan struct{}

	// Close closes the connection.
	Close() error
}
