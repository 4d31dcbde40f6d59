// Package groups keeps named lists of player names between games.
//
// All groups live as one JSON document under a fixed namespace in a SQLite
// key/value table. A document that cannot be decoded is treated as an empty
// list so a bad write never keeps the game from starting.
package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/Seednode/impostor/groups/migrations"
)

// Namespace is the key the group list is stored under.
const Namespace = "impostor.groups"

var (
	ErrNotFound     = errors.New("group not found")
	ErrInvalidGroup = errors.New("invalid group")
)

// Group is a saved list of player names.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PlayerNames []string `json:"player_names"`
}

// Store persists groups in SQLite.
type Store struct {
	sqlDB *sql.DB

	// mu serializes read-modify-write cycles on the group document.
	mu sync.Mutex

	// OnCorrupt, if set, is told about a stored document that had to be discarded.
	OnCorrupt func(error)
}

// Open opens the SQLite file at path and applies the embedded schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// List returns every saved group in creation order.
func (s *Store) List(ctx context.Context) ([]Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (Group, error) {
	groups, err := s.List(ctx)
	if err != nil {
		return Group{}, err
	}

	i := slices.IndexFunc(groups, func(g Group) bool { return g.ID == id })
	if i == -1 {
		return Group{}, ErrNotFound
	}
	return groups[i], nil
}

func (s *Store) Create(ctx context.Context, name string, playerNames []string) (Group, error) {
	g, err := normalize(name, playerNames)
	if err != nil {
		return Group{}, err
	}
	g.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return Group{}, err
	}

	if err := s.save(ctx, append(groups, g)); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Store) Update(ctx context.Context, id, name string, playerNames []string) error {
	g, err := normalize(name, playerNames)
	if err != nil {
		return err
	}
	g.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(groups, func(g Group) bool { return g.ID == id })
	if i == -1 {
		return ErrNotFound
	}
	groups[i] = g

	return s.save(ctx, groups)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(groups, func(g Group) bool { return g.ID == id })
	if i == -1 {
		return ErrNotFound
	}

	return s.save(ctx, slices.Delete(groups, i, i+1))
}

func normalize(name string, playerNames []string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	if len(playerNames) == 0 || len(playerNames) > impostor.MaxPlayers {
		return Group{}, fmt.Errorf("%w: between 1 and %d players required", ErrInvalidGroup, impostor.MaxPlayers)
	}

	names := make([]string, 0, len(playerNames))
	for _, n := range playerNames {
		n = strings.TrimSpace(n)
		if n == "" {
			return Group{}, fmt.Errorf("%w: player names must not be empty", ErrInvalidGroup)
		}
		names = append(names, n)
	}

	return Group{Name: name, PlayerNames: names}, nil
}

func (s *Store) load(ctx context.Context) ([]Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var raw string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT value FROM kv WHERE namespace = ?", Namespace).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []Group{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	var groups []Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		s.corrupt(err)
		return []Group{}, nil
	}

	valid := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.ID == "" || strings.TrimSpace(g.Name) == "" {
			s.corrupt(fmt.Errorf("dropping malformed group %q", g.ID))
			continue
		}
		valid = append(valid, g)
	}

	return valid, nil
}

func (s *Store) corrupt(err error) {
	if s.OnCorrupt != nil {
		s.OnCorrupt(err)
	}
}

func (s *Store) save(ctx context.Context, groups []Group) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode groups: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (namespace, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		Namespace, string(raw), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save groups: %w", err)
	}
	return nil
}
