/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/Seednode/impostor/groups"
)

type errorResponse struct {
	Error string `json:"error"`
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body, link string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"%s\">%s</a></body></html>", html.EscapeString(link), html.EscapeString(body)))

	return htmlBody.String()
}

// statusFor maps a game or storage error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, groups.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, impostor.ErrFetchInFlight):
		return http.StatusConflict
	case errors.Is(err, impostor.ErrScenarioUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, groups.ErrInvalidGroup),
		errors.Is(err, impostor.ErrInvalidRegistration),
		errors.Is(err, impostor.ErrIllegalAction),
		errors.Is(err, impostor.ErrWrongMode),
		errors.Is(err, impostor.ErrInvalidTarget),
		errors.Is(err, impostor.ErrSelfVote),
		errors.Is(err, impostor.ErrPlayerCount),
		errors.Is(err, impostor.ErrEliminationCount),
		errors.Is(err, impostor.ErrUnknownAction),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("malformed request")

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encoding failed"}`)
	}
	data = append(data, '\n')

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	written, _ := w.Write(data)

	return written
}

func writeError(cfg *Config, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logf(cfg, "ERROR: %v", err)
	}

	writeJSON(cfg, w, status, errorResponse{Error: err.Error()})
}
