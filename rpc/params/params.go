// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

// LoginRequest holds the credentials sent to the Admin facade by Juju
// 2.x and later clients.
type LoginRequest struct {
	AuthTag       string `json:"auth-tag"`
	Credentials   string `json:"credentials"`
	Nonce         string `json:"nonce"`
	ClientVersion string `json:"client-version,omitempty"`
}

// FacadeVersions describes the available facades and the versions of
// each one that the server supports.
type FacadeVersions struct {
	Name     string `json:"name"`
	Versions []int  `json:"versions"`
}

// LoginResult holds the result of an Admin Login call.
type LoginResult struct {
	ModelTag      string           `json:"model-tag,omitempty"`
	ControllerTag string           `json:"controller-tag,omitempty"`
	Facades       []FacadeVersions `json:"facades,omitempty"`
	ServerVersion string           `json:"server-version,omitempty"`
}

// LegacyLoginRequest holds the credentials sent to the Admin facade of a
// Juju 1.x controller.
type LegacyLoginRequest struct {
	AuthTag     string `json:"AuthTag"`
	Credentials string `json:"Password"`
	Nonce       string `json:"Nonce"`
}

// LegacyFacadeVersions is the 1.x shape of FacadeVersions.
type LegacyFacadeVersions struct {
	Name     string `json:"Name"`
	Versions []int  `json:"Versions"`
}

// LegacyLoginResult holds the result of a 1.x Admin Login call.
type LegacyLoginResult struct {
	EnvironTag    string                 `json:"EnvironTag"`
	ServerTag     string                 `json:"ServerTag"`
	Facades       []LegacyFacadeVersions `json:"Facades"`
	ServerVersion string                 `json:"ServerVersion"`
}

// AllWatcherId holds the id of a newly created AllWatcher. Juju 1.x
// controllers use the AllWatcherId key.
type AllWatcherId struct {
	WatcherId       string `json:"watcher-id"`
	LegacyWatcherId string `json:"AllWatcherId,omitempty"`
}

// Id returns the watcher id, whichever key carried it.
func (w AllWatcherId) Id() string {
	if w.WatcherId != "" {
		return w.WatcherId
	}
	return w.LegacyWatcherId
}

// AllWatcherNextResults holds deltas returned from calling AllWatcher.Next().
type AllWatcherNextResults struct {
	Deltas []Delta `json:"deltas"`
}
