// Impostor session host
//
// Every session runs one pass-the-phone game of Impostor. The phone in the
// middle of the table drives the game through actions, and any other screen
// (a TV, a second phone) can follow along over a websocket. This is a JSON
// API: a phone or TV needs a client page that speaks it.
//
// Features:
// - Sessions per game ID: /path/:gameid, /path/:gameid/action and /path/:gameid/ws
// - Every state change is pushed to all connected screens as a fresh view
// - Errors from an action are sent only to the screen that sent it
// - A revealed card is sent only to the screen that revealed it, never broadcast
// - Starting from a saved group skips name entry
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/Seednode/impostor/groups"
)

const gameIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Messages coming from clients, over the websocket or POSTed to /action.
type ClientMessage struct {
	Type             string   `json:"type"`                        // see decodeAction
	Mode             string   `json:"mode,omitempty"`              // start
	Players          int      `json:"players,omitempty"`           // start
	EliminationCount int      `json:"elimination_count,omitempty"` // start
	Names            []string `json:"names,omitempty"`             // start
	GroupID          string   `json:"group_id,omitempty"`          // start
	Name             string   `json:"name,omitempty"`              // submit_name
	Target           *int     `json:"target,omitempty"`            // cast_vote / select_target / resurrect
}

// ViewMessage carries the full screen state after every change.
type ViewMessage struct {
	Type string        `json:"type"` // "state"
	View impostor.View `json:"view"`
}

// CardMessage is sent only to the client that revealed a card.
type CardMessage struct {
	Type string        `json:"type"` // "card"
	Card impostor.Card `json:"card"`
}

// SimpleMessage is for notifications sent to a single client ("error").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// decodeAction turns a client message into a game action. A start message
// naming a saved group takes its player names from the group store.
func decodeAction(ctx context.Context, store *groups.Store, msg ClientMessage) (impostor.Action, error) {
	target := func() (int, error) {
		if msg.Target == nil {
			return 0, fmt.Errorf("%w: %s requires a target", impostor.ErrInvalidTarget, msg.Type)
		}
		return *msg.Target, nil
	}

	switch msg.Type {
	case "start":
		names := msg.Names
		if msg.GroupID != "" {
			if store == nil {
				return nil, fmt.Errorf("%w: saved groups are unavailable", errBadRequest)
			}
			g, err := store.Get(ctx, msg.GroupID)
			if err != nil {
				return nil, err
			}
			names = g.PlayerNames
		}
		return impostor.Start{
			Mode:             impostor.Mode(msg.Mode),
			Players:          msg.Players,
			EliminationCount: msg.EliminationCount,
			Names:            names,
		}, nil
	case "submit_name":
		return impostor.SubmitName{Name: msg.Name}, nil
	case "reveal_card":
		return impostor.RevealCard{}, nil
	case "hide_card":
		return impostor.HideCard{}, nil
	case "confirm_card":
		return impostor.ConfirmCard{}, nil
	case "begin":
		return impostor.Begin{}, nil
	case "start_voting":
		return impostor.StartVoting{}, nil
	case "confirm_voter":
		return impostor.ConfirmVoter{}, nil
	case "cast_vote":
		t, err := target()
		if err != nil {
			return nil, err
		}
		return impostor.CastVote{Target: t}, nil
	case "confirm_runoff":
		return impostor.ConfirmRunoff{}, nil
	case "continue":
		return impostor.Continue{}, nil
	case "select_target":
		t, err := target()
		if err != nil {
			return nil, err
		}
		return impostor.SelectTarget{Target: t}, nil
	case "resurrect":
		t, err := target()
		if err != nil {
			return nil, err
		}
		return impostor.Resurrect{Target: t}, nil
	case "reveal_words":
		return impostor.RevealWords{}, nil
	case "hide_words":
		return impostor.HideWords{}, nil
	case "undo":
		return impostor.Undo{}, nil
	case "replay":
		return impostor.Replay{}, nil
	case "restart":
		return impostor.Restart{}, nil
	}

	return nil, fmt.Errorf("%w: %q", impostor.ErrUnknownAction, msg.Type)
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type reply struct {
	client *Client
	msg    any
}

type Session struct {
	id      string
	game    *impostor.Game
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	replies  chan reply
	changed  chan struct{}
	done     chan struct{}

	closeOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newSession(gameID string, scenarios impostor.Provider) *Session {
	now := time.Now()

	s := &Session{
		id:         gameID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		replies:    make(chan reply),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}

	s.game = impostor.New(impostor.Guard(scenarios), impostor.WithOnChange(s.notify))

	return s
}

// notify coalesces change signals; the run loop always sends the latest view.
func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastActive
}

func (s *Session) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.clients)
}

// apply runs one action against the game and logs the outcome.
func (s *Session) apply(ctx context.Context, cfg *Config, a impostor.Action) error {
	s.touch()

	startTime := time.Now()

	err := s.game.Apply(ctx, a)
	if err != nil {
		logf(cfg, "GAMES: %T rejected in %s: %v", a, s.id, err)

		return err
	}

	logf(cfg, "GAMES: %T applied in %s, now %s (%s)",
		a,
		s.id,
		s.game.State().Phase(),
		time.Since(startTime).Round(time.Microsecond),
	)

	return nil
}

func (s *Session) run() {
	for {
		select {
		case c := <-s.register:
			s.mu.Lock()
			s.lastActive = time.Now()
			s.clients[c] = true
			s.mu.Unlock()

			c.send <- ViewMessage{Type: "state", View: s.game.View()}

		case c := <-s.unreg:
			s.mu.Lock()
			s.lastActive = time.Now()

			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}
			s.mu.Unlock()

		case r := <-s.replies:
			s.mu.Lock()
			if _, ok := s.clients[r.client]; ok {
				s.sendLocked(r.client, r.msg)
			}
			s.mu.Unlock()

		case <-s.changed:
			msg := ViewMessage{Type: "state", View: s.game.View()}

			s.mu.Lock()
			for c := range s.clients {
				s.sendLocked(c, msg)
			}
			s.mu.Unlock()

		case <-s.done:
			s.mu.Lock()
			for c := range s.clients {
				close(c.send)
				_ = c.conn.Close()
				delete(s.clients, c)
			}
			s.mu.Unlock()

			return
		}
	}
}

// sendLocked drops clients that cannot keep up. Assumes s.mu is held.
func (s *Session) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(s.clients, c)
		close(c.send)
	}
}

// close disconnects every client and stops the run loop.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.game.Apply(context.Background(), impostor.Restart{})
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameManager holds a set of sessions keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	scenarios   impostor.Provider
}

func newGameManager(ctx context.Context, idleTimeout time.Duration, scenarios impostor.Provider) *GameManager {
	gm := &GameManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		scenarios:   scenarios,
	}

	if idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}

	return gm
}

func validGameID(id string) bool {
	if len(id) != 8 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(gameIDLetters, r) {
			return false
		}
	}
	return true
}

// getSession returns the session for gameID, opening it on first use.
func (gm *GameManager) getSession(cfg *Config, gameID string) (*Session, bool) {
	if !validGameID(gameID) {
		return nil, false
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if s, ok := gm.sessions[gameID]; ok {
		return s, true
	}

	s := newSession(gameID, gm.scenarios)
	gm.sessions[gameID] = s

	go s.run()

	logf(cfg, "GAMES: Opened session %s", gameID)

	return s, true
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		out := make([]byte, 8)
		for i := range out {
			out[i] = gameIDLetters[int(buf[i])%len(gameIDLetters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.sessions[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap closes sessions idle since before cutoff and reports how many it closed.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, s := range gm.sessions {
		if s.idleSince().Before(cutoff) {
			delete(gm.sessions, id)
			go s.close()
			reaped++
		}
	}

	return reaped
}

// reaperLoop periodically removes sessions that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		case <-ctx.Done():
			gm.reap(time.Now().Add(time.Hour))

			return
		}
	}
}

func serveView(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		s, ok := gm.getSession(cfg, ps.ByName("gameid"))
		if !ok {
			writeJSON(cfg, w, http.StatusNotFound, errorResponse{Error: "unknown game id"})

			return
		}
		s.touch()

		written := writeJSON(cfg, w, http.StatusOK, s.game.View())

		logf(cfg, "SERVE: View of %s (%s) to %s in %s",
			s.id,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveAction(cfg *Config, gm *GameManager, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, ok := gm.getSession(cfg, ps.ByName("gameid"))
		if !ok {
			writeJSON(cfg, w, http.StatusNotFound, errorResponse{Error: "unknown game id"})

			return
		}

		var msg ClientMessage
		if err := decodeBody(w, r, &msg); err != nil {
			writeError(cfg, w, err)

			return
		}

		action, err := decodeAction(r.Context(), store, msg)
		if err != nil {
			writeError(cfg, w, err)

			return
		}

		if err := s.apply(r.Context(), cfg, action); err != nil {
			writeError(cfg, w, err)

			return
		}

		writeJSON(cfg, w, http.StatusOK, s.game.HolderView())
	}
}

// WebSocket handler that picks the session based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager, store *groups.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, ok := gm.getSession(cfg, ps.ByName("gameid"))
		if !ok {
			http.Error(w, "unknown game id", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
		}

		select {
		case s.register <- client:
		case <-s.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: %s joined %s (%d connected)", realIP(r), s.id, s.clientCount())

		go client.writePump()
		client.readPump(r.Context(), cfg, s, store)
	}
}

func (c *Client) readPump(ctx context.Context, cfg *Config, s *Session, store *groups.Store) {
	defer func() {
		select {
		case s.unreg <- c:
		case <-s.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		var out any

		action, err := decodeAction(ctx, store, msg)
		if err == nil {
			err = s.apply(ctx, cfg, action)
		}
		switch {
		case err != nil:
			out = SimpleMessage{Type: "error", Message: err.Error()}
		case msg.Type == "reveal_card":
			if card := s.game.HolderView().Card; card != nil {
				out = CardMessage{Type: "card", Card: *card}
			}
		}
		if out == nil {
			continue
		}

		select {
		case s.replies <- reply{client: c, msg: out}:
		case <-s.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
// The code encodes the JSON view route, so it is meant for a client app that
// reads it to join the session, not for a bare phone browser.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "unknown game id", http.StatusNotFound)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")
		url := scheme + "://" + r.Host + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerImpostorGame sets up the JSON API routes, for client apps:
//   - $path                    → redirects to new random game (8-char ID)
//   - $path/:gameid            → JSON view of that game, without any revealed card
//   - $path/:gameid/action     → apply one action, respond with the new view and revealed card
//   - $path/:gameid/ws         → WebSocket for that game
//   - $path/:gameid/qr         → PNG QR code for that game URL
func registerImpostorGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, store *groups.Store, scenarios impostor.Provider) *GameManager {
	gm := newGameManager(ctx, cfg.sessionTimeout, scenarios)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", serveView(cfg, gm))

	mux.POST(cfg.prefix+path+"/:gameid/action", serveAction(cfg, gm, store))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm, store))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	return gm
}
