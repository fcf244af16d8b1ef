// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package modeldb holds the in-memory object database that mirrors a
// model as reported by the controller's AllWatcher.
//
// Records are upserted by action: add and change create a record when
// it is absent and replace its attributes when present; remove deletes
// it when present. Annotations live alongside the records but are only
// ever changed by annotation updates, which merge into the existing
// map.
//
// Relations may arrive before the applications they join. Such a
// relation is held in a pending queue under the first missing
// application and is applied when that application is inserted.
package modeldb
