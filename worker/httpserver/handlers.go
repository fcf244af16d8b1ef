// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
)

func newRouter(db *modeldb.DB, gatherer prometheus.Gatherer, events http.Handler, logger Logger) *mux.Router {
	h := &modelHandler{db: db, logger: logger}
	router := mux.NewRouter()
	router.HandleFunc("/model", h.serveModel).Methods(http.MethodGet)
	router.HandleFunc("/applications", h.serveApplications).Methods(http.MethodGet)
	router.HandleFunc("/applications/{name}", h.serveApplication).Methods(http.MethodGet)
	router.HandleFunc("/applications/{name}/pending-relations", h.servePendingRelations).Methods(http.MethodGet)
	// Unit names and container ids contain slashes.
	router.HandleFunc("/units", h.serveUnits).Methods(http.MethodGet)
	router.HandleFunc("/units/{name:.+}", h.serveUnit).Methods(http.MethodGet)
	router.HandleFunc("/machines", h.serveMachines).Methods(http.MethodGet)
	router.HandleFunc("/machines/{id:.+}", h.serveMachine).Methods(http.MethodGet)
	router.HandleFunc("/relations", h.serveRelations).Methods(http.MethodGet)
	router.Handle("/events", events).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.sendError(w, req, errors.NotFoundf("path %q", req.URL.Path))
	})
	return router
}

type modelHandler struct {
	db     *modeldb.DB
	logger Logger
}

func (h *modelHandler) serveModel(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, req, http.StatusOK, h.db.Snapshot())
}

func (h *modelHandler) serveApplications(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, req, http.StatusOK, h.db.Applications())
}

func (h *modelHandler) serveApplication(w http.ResponseWriter, req *http.Request) {
	app, err := h.db.Application(mux.Vars(req)["name"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	h.sendJSON(w, req, http.StatusOK, app)
}

func (h *modelHandler) servePendingRelations(w http.ResponseWriter, req *http.Request) {
	keys := h.db.PendingRelations(mux.Vars(req)["name"])
	if keys == nil {
		keys = []string{}
	}
	h.sendJSON(w, req, http.StatusOK, keys)
}

func (h *modelHandler) serveUnits(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, req, http.StatusOK, h.db.Units())
}

func (h *modelHandler) serveUnit(w http.ResponseWriter, req *http.Request) {
	unit, err := h.db.Unit(mux.Vars(req)["name"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	h.sendJSON(w, req, http.StatusOK, unit)
}

func (h *modelHandler) serveMachines(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, req, http.StatusOK, h.db.Machines())
}

func (h *modelHandler) serveMachine(w http.ResponseWriter, req *http.Request) {
	machine, err := h.db.Machine(mux.Vars(req)["id"])
	if err != nil {
		h.sendError(w, req, err)
		return
	}
	h.sendJSON(w, req, http.StatusOK, machine)
}

func (h *modelHandler) serveRelations(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, req, http.StatusOK, h.db.Relations())
}

func (h *modelHandler) sendJSON(w http.ResponseWriter, req *http.Request, code int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Errorf("cannot marshal response for %s: %v", req.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		h.logger.Debugf("writing response for %s: %v", req.URL.Path, err)
	}
}

// sendError writes err as a params.Error, choosing the status code
// from the error type.
func (h *modelHandler) sendError(w http.ResponseWriter, req *http.Request, err error) {
	code := http.StatusInternalServerError
	apiErr := params.Error{Message: err.Error()}
	switch {
	case errors.Is(err, errors.NotFound):
		code = http.StatusNotFound
		apiErr.Code = params.CodeNotFound
	case errors.Is(err, errors.BadRequest):
		code = http.StatusBadRequest
		apiErr.Code = params.CodeBadRequest
	default:
		h.logger.Errorf("returning error from %s %s: %s", req.Method, req.URL.Path, errors.Details(err))
	}
	h.sendJSON(w, req, code, apiErr)
}
