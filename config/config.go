// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config reads the configuration file of the juju-gui-sync
// command.
package config

import (
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/names/v5"
	"github.com/juju/schema"
	"gopkg.in/yaml.v3"
)

// The attribute names used in the configuration file.
const (
	ControllerAddressesKey = "controller-addresses"
	ModelUUIDKey           = "model-uuid"
	UsernameKey            = "username"
	PasswordKey            = "password"
	CACertKey              = "ca-cert"
	InsecureSkipVerifyKey  = "insecure-skip-verify"
	APIFormatKey           = "api-format"
	ListenAddressKey       = "listen-address"
	LoggingConfigKey       = "logging-config"
	RetryDelayKey          = "retry-delay"
	MaxRetryDelayKey       = "max-retry-delay"
)

// The recognised values of api-format.
const (
	FormatAuto   = "auto"
	FormatModern = "modern"
	FormatLegacy = "legacy"
	FormatPython = "python"
)

// The default values of optional attributes.
const (
	DefaultUsername      = "admin"
	DefaultAPIFormat     = FormatAuto
	DefaultListenAddress = "localhost:8042"
	DefaultLoggingConfig = "<root>=INFO"
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = time.Minute
)

var configFields = schema.Fields{
	ControllerAddressesKey: schema.List(schema.String()),
	ModelUUIDKey:           schema.String(),
	UsernameKey:            schema.String(),
	PasswordKey:            schema.String(),
	CACertKey:              schema.String(),
	InsecureSkipVerifyKey:  schema.Bool(),
	APIFormatKey:           schema.OneOf(schema.Const(FormatAuto), schema.Const(FormatModern), schema.Const(FormatLegacy), schema.Const(FormatPython)),
	ListenAddressKey:       schema.String(),
	LoggingConfigKey:       schema.String(),
	RetryDelayKey:          schema.TimeDurationString(),
	MaxRetryDelayKey:       schema.TimeDurationString(),
}

var configDefaults = schema.Defaults{
	UsernameKey:           DefaultUsername,
	PasswordKey:           "",
	CACertKey:             "",
	InsecureSkipVerifyKey: false,
	APIFormatKey:          DefaultAPIFormat,
	ListenAddressKey:      DefaultListenAddress,
	LoggingConfigKey:      DefaultLoggingConfig,
	RetryDelayKey:         DefaultRetryDelay.String(),
	MaxRetryDelayKey:      DefaultMaxRetryDelay.String(),
}

var configChecker = schema.FieldMap(configFields, configDefaults)

// Config holds the settings of a juju-gui-sync process.
type Config struct {
	ControllerAddresses []string
	ModelUUID           string
	Username            string
	Password            string
	CACert              string
	InsecureSkipVerify  bool
	APIFormat           string
	ListenAddress       string
	LoggingConfig       string
	RetryDelay          time.Duration
	MaxRetryDelay       time.Duration
}

// ReadFile reads and parses the configuration file at path.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate(err, "reading config file")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing %s", path)
	}
	return cfg, nil
}

// Parse parses YAML configuration data, filling in defaults for
// attributes that are not set. Unknown attributes are ignored with a
// warning.
func Parse(data []byte) (*Config, error) {
	var attrs map[string]interface{}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, errors.Trace(err)
	}
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	for name := range attrs {
		if _, ok := configFields[name]; !ok {
			logger.Warningf("unknown config field %q", name)
		}
	}
	coerced, err := configChecker.Coerce(attrs, nil)
	if err != nil {
		return nil, errors.NewNotValid(err, "config schema check failed")
	}
	// From here the map holds values of the right types.
	valid := coerced.(map[string]interface{})

	cfg := &Config{
		ModelUUID:          valid[ModelUUIDKey].(string),
		Username:           valid[UsernameKey].(string),
		Password:           valid[PasswordKey].(string),
		CACert:             valid[CACertKey].(string),
		InsecureSkipVerify: valid[InsecureSkipVerifyKey].(bool),
		APIFormat:          valid[APIFormatKey].(string),
		ListenAddress:      valid[ListenAddressKey].(string),
		LoggingConfig:      valid[LoggingConfigKey].(string),
	}
	for _, addr := range valid[ControllerAddressesKey].([]interface{}) {
		cfg.ControllerAddresses = append(cfg.ControllerAddresses, addr.(string))
	}
	if cfg.RetryDelay, err = durationValue(valid[RetryDelayKey]); err != nil {
		return nil, errors.Annotatef(err, "parsing %s", RetryDelayKey)
	}
	if cfg.MaxRetryDelay, err = durationValue(valid[MaxRetryDelayKey]); err != nil {
		return nil, errors.Annotatef(err, "parsing %s", MaxRetryDelayKey)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func durationValue(v interface{}) (time.Duration, error) {
	switch v := v.(type) {
	case time.Duration:
		return v, nil
	case string:
		return time.ParseDuration(v)
	}
	return 0, errors.NotValidf("duration %v", v)
}

// Validate checks the values that the schema cannot.
func (c *Config) Validate() error {
	if len(c.ControllerAddresses) == 0 {
		return errors.NotValidf("empty %s", ControllerAddressesKey)
	}
	if !names.IsValidModel(c.ModelUUID) {
		return errors.NotValidf("%s %q", ModelUUIDKey, c.ModelUUID)
	}
	if !names.IsValidUser(c.Username) {
		return errors.NotValidf("%s %q", UsernameKey, c.Username)
	}
	if _, err := loggo.ParseConfigString(c.LoggingConfig); err != nil {
		return errors.NewNotValid(err, LoggingConfigKey)
	}
	if c.RetryDelay <= 0 {
		return errors.NotValidf("non-positive %s", RetryDelayKey)
	}
	if c.MaxRetryDelay < c.RetryDelay {
		return errors.NotValidf("%s less than %s", MaxRetryDelayKey, RetryDelayKey)
	}
	return nil
}

// UserTag returns the tag of the user logging in to the controller.
func (c *Config) UserTag() names.UserTag {
	return names.NewUserTag(c.Username)
}
