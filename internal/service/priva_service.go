package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/AdamBeresnev/privas/internal/rules"
	"github.com/AdamBeresnev/privas/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPrivaNotFound = errors.New("priva not found")
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidParams = errors.New("invalid action parameters")
)

// Publisher receives the fresh report of a priva after every change. The
// room is the priva id.
type Publisher interface {
	Publish(room string, v any)
}

type pooledPriva struct {
	mu    sync.Mutex
	priva priva.Instance
	// stale is set under mu once the instance no longer matches the store.
	stale bool
}

// PrivaService runs actions on stored privas. Privas are loaded into an
// in-memory pool on first use and every call on one priva is serialised.
type PrivaService struct {
	db      *sqlx.DB
	store   *store.PrivaStore
	live    Publisher
	metrics *Metrics
	opts    []priva.Option

	mu   sync.Mutex
	pool map[uuid.UUID]*pooledPriva
}

// NewPrivaService builds the service. live and metrics may be nil; opts are
// passed to every priva the service creates or loads.
func NewPrivaService(db *sqlx.DB, store *store.PrivaStore, live Publisher, metrics *Metrics, opts ...priva.Option) *PrivaService {
	return &PrivaService{
		db:      db,
		store:   store,
		live:    live,
		metrics: metrics,
		opts:    opts,
		pool:    make(map[uuid.UUID]*pooledPriva),
	}
}

func (s *PrivaService) Create(ctx context.Context, kind priva.Kind, args []int) (uuid.UUID, error) {
	inst, err := priva.New(kind, args, s.opts...)
	if err != nil {
		return uuid.Nil, err
	}
	row, err := newRow(uuid.New(), inst)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.store.CreatePriva(ctx, tx, row); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create priva: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.pool[row.ID] = &pooledPriva{priva: inst}
	s.metrics.setPoolSize(len(s.pool))
	s.mu.Unlock()

	slog.Info("priva created", "id", row.ID, "type", kind)
	return row.ID, nil
}

// Delete reports whether the priva existed.
func (s *PrivaService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.DeletePriva(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete priva: %w", err)
	}
	s.mu.Lock()
	p, ok := s.pool[id]
	s.mu.Unlock()
	if ok {
		p.mu.Lock()
		p.stale = true
		p.mu.Unlock()
		s.evict(id, p)
	}
	if deleted {
		slog.Info("priva deleted", "id", id)
	}
	return deleted, nil
}

func (s *PrivaService) List(ctx context.Context) ([]store.PrivaRow, error) {
	rows, err := s.store.ListPrivas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list privas: %w", err)
	}
	return rows, nil
}

func (s *PrivaService) Report(ctx context.Context, id uuid.UUID, locale string) (priva.Report, error) {
	p, err := s.acquire(ctx, id)
	if err != nil {
		return priva.Report{}, err
	}
	defer p.mu.Unlock()
	return p.priva.Report(locale), nil
}

func (s *PrivaService) Rules(ctx context.Context, id uuid.UUID, locale string) (string, error) {
	p, err := s.acquire(ctx, id)
	if err != nil {
		return "", err
	}
	defer p.mu.Unlock()
	return p.priva.Rules(locale), nil
}

// Run invokes a method of a priva with JSON encoded params and returns its
// result. Changes are saved before Run returns.
func (s *PrivaService) Run(ctx context.Context, id uuid.UUID, method string, params json.RawMessage) (any, error) {
	act, ok := actions[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, method)
	}
	p, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer p.mu.Unlock()

	result, err := act.run(p.priva, params)
	s.metrics.observeAction(p.priva.Kind(), method, err)
	if err != nil {
		return nil, err
	}
	if !act.mutates {
		return result, nil
	}

	if err := s.save(ctx, id, p.priva); err != nil {
		// The stored state is the reference; drop the diverged copy.
		p.stale = true
		s.evict(id, p)
		return nil, err
	}
	slog.Info("priva action", "id", id, "type", p.priva.Kind(), "method", method, "status", p.priva.Status())
	if s.live != nil {
		s.live.Publish(id.String(), p.priva.Report(rules.DefaultLocale))
	}
	return result, nil
}

// acquire returns the pooled instance with its mutex held. Callers that
// waited on an instance gone stale meanwhile retry with a fresh load.
func (s *PrivaService) acquire(ctx context.Context, id uuid.UUID) (*pooledPriva, error) {
	for {
		p, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		if !p.stale {
			return p, nil
		}
		p.mu.Unlock()
	}
}

func (s *PrivaService) load(ctx context.Context, id uuid.UUID) (*pooledPriva, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pool[id]; ok {
		return p, nil
	}

	row, err := s.store.GetPriva(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrivaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load priva: %w", err)
	}

	var rec priva.Record
	if err := json.Unmarshal([]byte(row.State), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode priva %s: %w", id, err)
	}
	inst, err := priva.FromRecord(rec, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore priva %s: %w", id, err)
	}

	p := &pooledPriva{priva: inst}
	s.pool[id] = p
	s.metrics.setPoolSize(len(s.pool))
	return p, nil
}

func (s *PrivaService) save(ctx context.Context, id uuid.UUID, inst priva.Instance) error {
	row, err := newRow(id, inst)
	if err != nil {
		return err
	}
	err = s.store.SavePriva(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPrivaNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to save priva: %w", err)
	}
	return nil
}

// evict drops p from the pool unless it was already replaced.
func (s *PrivaService) evict(id uuid.UUID, p *pooledPriva) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool[id] == p {
		delete(s.pool, id)
	}
	s.metrics.setPoolSize(len(s.pool))
}

func newRow(id uuid.UUID, inst priva.Instance) (*store.PrivaRow, error) {
	state, err := json.Marshal(inst.Record())
	if err != nil {
		return nil, fmt.Errorf("failed to encode priva: %w", err)
	}
	return &store.PrivaRow{
		ID:     id,
		Type:   string(inst.Kind()),
		Status: int(inst.Status()),
		State:  string(state),
	}, nil
}

type action struct {
	mutates bool
	run     func(p priva.Instance, params json.RawMessage) (any, error)
}

type playersParams struct {
	Players []string `json:"players"`
}

type battleParams struct {
	TeamA []string `json:"team_a"`
	TeamB []string `json:"team_b"`
}

type outcomeParams struct {
	Outcome priva.Side `json:"outcome"`
}

type langParams struct {
	Lang string `json:"lang"`
}

type logsParams struct {
	Num int `json:"num"`
}

// Methods names the actions Run accepts.
func Methods() []string {
	return []string{"start", "end", "add_players", "remove_players", "start_battle", "end_battle", "undo", "report", "rules", "logs"}
}

var actions = map[string]action{
	"start": {mutates: true, run: func(p priva.Instance, _ json.RawMessage) (any, error) {
		return p.Start()
	}},
	"end": {mutates: true, run: func(p priva.Instance, _ json.RawMessage) (any, error) {
		return p.End(), nil
	}},
	"add_players": {mutates: true, run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		names, err := decodePlayers(raw)
		if err != nil {
			return nil, err
		}
		return p.AddPlayers(names)
	}},
	"remove_players": {mutates: true, run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		names, err := decodePlayers(raw)
		if err != nil {
			return nil, err
		}
		return p.RemovePlayers(names)
	}},
	"start_battle": {mutates: true, run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		var params battleParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		return p.StartBattle(params.TeamA, params.TeamB)
	}},
	"end_battle": {mutates: true, run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		var params outcomeParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		return p.EndBattle(params.Outcome)
	}},
	"undo": {mutates: true, run: func(p priva.Instance, _ json.RawMessage) (any, error) {
		return p.Undo()
	}},
	"report": {run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		var params langParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		return p.Report(params.Lang), nil
	}},
	"rules": {run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		var params langParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		return p.Rules(params.Lang), nil
	}},
	"logs": {run: func(p priva.Instance, raw json.RawMessage) (any, error) {
		var params logsParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		return p.Logs(params.Num), nil
	}},
}

func decodePlayers(raw json.RawMessage) ([]string, error) {
	var params playersParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if len(params.Players) == 0 {
		return nil, fmt.Errorf("%w: players is required", ErrInvalidParams)
	}
	return params.Players, nil
}

func decodeParams(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
