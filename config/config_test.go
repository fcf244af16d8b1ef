// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-gui/config"
)

type configSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&configSuite{})

const minimal = `
controller-addresses: ["10.0.0.1:17070"]
model-uuid: deadbeef-0bad-400d-8000-4b1d0d06f00d
`

func (s *configSuite) TestDefaults(c *gc.C) {
	cfg, err := config.Parse([]byte(minimal))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, &config.Config{
		ControllerAddresses: []string{"10.0.0.1:17070"},
		ModelUUID:           "deadbeef-0bad-400d-8000-4b1d0d06f00d",
		Username:            "admin",
		APIFormat:           "auto",
		ListenAddress:       "localhost:8042",
		LoggingConfig:       "<root>=INFO",
		RetryDelay:          time.Second,
		MaxRetryDelay:       time.Minute,
	})
	c.Check(cfg.UserTag(), gc.Equals, names.NewUserTag("admin"))
}

func (s *configSuite) TestAllFields(c *gc.C) {
	cfg, err := config.Parse([]byte(`
controller-addresses:
  - 10.0.0.1:17070
  - 10.0.0.2:17070
model-uuid: deadbeef-0bad-400d-8000-4b1d0d06f00d
username: bob
password: sekrit
ca-cert: |
  -----BEGIN CERTIFICATE-----
  -----END CERTIFICATE-----
insecure-skip-verify: true
api-format: legacy
listen-address: 0.0.0.0:9000
logging-config: <root>=DEBUG;juju.gui.delta=TRACE
retry-delay: 250ms
max-retry-delay: 30s
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.ControllerAddresses, jc.DeepEquals, []string{"10.0.0.1:17070", "10.0.0.2:17070"})
	c.Check(cfg.Username, gc.Equals, "bob")
	c.Check(cfg.Password, gc.Equals, "sekrit")
	c.Check(cfg.CACert, jc.Contains, "BEGIN CERTIFICATE")
	c.Check(cfg.InsecureSkipVerify, jc.IsTrue)
	c.Check(cfg.APIFormat, gc.Equals, config.FormatLegacy)
	c.Check(cfg.ListenAddress, gc.Equals, "0.0.0.0:9000")
	c.Check(cfg.LoggingConfig, gc.Equals, "<root>=DEBUG;juju.gui.delta=TRACE")
	c.Check(cfg.RetryDelay, gc.Equals, 250*time.Millisecond)
	c.Check(cfg.MaxRetryDelay, gc.Equals, 30*time.Second)
}

func (s *configSuite) TestInvalid(c *gc.C) {
	for i, test := range []struct {
		about string
		yaml  string
		err   string
	}{{
		about: "missing addresses",
		yaml:  `model-uuid: deadbeef-0bad-400d-8000-4b1d0d06f00d`,
		err:   `config schema check failed: controller-addresses: expected list, got nothing`,
	}, {
		about: "missing model",
		yaml:  `controller-addresses: ["a:1"]`,
		err:   `config schema check failed: model-uuid: expected string, got nothing`,
	}, {
		about: "empty addresses",
		yaml:  "controller-addresses: []\nmodel-uuid: deadbeef-0bad-400d-8000-4b1d0d06f00d",
		err:   `empty controller-addresses not valid`,
	}, {
		about: "bad model uuid",
		yaml:  "controller-addresses: [a:1]\nmodel-uuid: foo",
		err:   `model-uuid "foo" not valid`,
	}, {
		about: "bad username",
		yaml:  minimal + "username: 'no way'",
		err:   `username "no way" not valid`,
	}, {
		about: "bad api format",
		yaml:  minimal + "api-format: xml",
		err:   `config schema check failed: api-format: .*`,
	}, {
		about: "bad logging config",
		yaml:  minimal + "logging-config: '<root>=LOUD'",
		err:   `logging-config: .*`,
	}, {
		about: "bad duration",
		yaml:  minimal + "retry-delay: soon",
		err:   `.*retry-delay.*`,
	}, {
		about: "max below delay",
		yaml:  minimal + "retry-delay: 10s\nmax-retry-delay: 1s",
		err:   `max-retry-delay less than retry-delay not valid`,
	}, {
		about: "not yaml",
		yaml:  "controller-addresses: [",
		err:   `yaml: .*`,
	}} {
		c.Logf("test %d: %s", i, test.about)
		_, err := config.Parse([]byte(test.yaml))
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *configSuite) TestValidateErrorsAreNotValid(c *gc.C) {
	_, err := config.Parse([]byte("controller-addresses: []\nmodel-uuid: deadbeef-0bad-400d-8000-4b1d0d06f00d"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *configSuite) TestReadFile(c *gc.C) {
	path := filepath.Join(c.MkDir(), "config.yaml")
	err := os.WriteFile(path, []byte(minimal), 0600)
	c.Assert(err, jc.ErrorIsNil)

	cfg, err := config.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.ModelUUID, gc.Equals, "deadbeef-0bad-400d-8000-4b1d0d06f00d")

	_, err = config.ReadFile(filepath.Join(c.MkDir(), "missing.yaml"))
	c.Check(err, gc.ErrorMatches, "reading config file: .*")
	c.Check(err, jc.ErrorIs, os.ErrNotExist)
}
