package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/impostor/groups"
)

const maxBodyBytes = 64 << 10

// GroupRequest is the body accepted when saving a group.
type GroupRequest struct {
	Name        string   `json:"name"`
	PlayerNames []string `json:"player_names"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func serveGroupList(cfg *Config, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		list, err := store.List(r.Context())
		if err != nil {
			writeError(cfg, w, err)

			return
		}

		written := writeJSON(cfg, w, http.StatusOK, list)

		logf(cfg, "SERVE: Group list (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func createGroup(cfg *Config, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req GroupRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(cfg, w, err)

			return
		}

		g, err := store.Create(r.Context(), req.Name, req.PlayerNames)
		if err != nil {
			writeError(cfg, w, err)

			return
		}

		logf(cfg, "GROUPS: Created %q (%s) with %d players for %s", g.Name, g.ID, len(g.PlayerNames), realIP(r))

		writeJSON(cfg, w, http.StatusCreated, g)
	}
}

func updateGroup(cfg *Config, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")

		var req GroupRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(cfg, w, err)

			return
		}

		if err := store.Update(r.Context(), id, req.Name, req.PlayerNames); err != nil {
			writeError(cfg, w, err)

			return
		}

		g, err := store.Get(r.Context(), id)
		if err != nil {
			writeError(cfg, w, err)

			return
		}

		logf(cfg, "GROUPS: Updated %q (%s) for %s", g.Name, g.ID, realIP(r))

		writeJSON(cfg, w, http.StatusOK, g)
	}
}

func deleteGroup(cfg *Config, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")

		if err := store.Delete(r.Context(), id); err != nil {
			writeError(cfg, w, err)

			return
		}

		logf(cfg, "GROUPS: Deleted %s for %s", id, realIP(r))

		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// registerGroups sets up routes so that:
//   - GET    $path     → every saved group
//   - POST   $path     → save a new group
//   - PUT    $path/:id → replace a group's name and players
//   - DELETE $path/:id → forget a group
func registerGroups(cfg *Config, path string, mux *httprouter.Router, store *groups.Store) {
	mux.GET(cfg.prefix+path, serveGroupList(cfg, store))
	mux.POST(cfg.prefix+path, createGroup(cfg, store))
	mux.PUT(cfg.prefix+path+"/:id", updateGroup(cfg, store))
	mux.DELETE(cfg.prefix+path+"/:id", deleteGroup(cfg, store))
}
