// Package memstore is an in-memory implementation of the server storage:
// a dbx.Transactor plus a repository manager over the same data.
//
// Transactions are serialized by a single mutex and roll back by restoring a
// snapshot, which gives every unit of work the isolation that the PostgreSQL
// implementation obtains through row locks. It backs the "memory" DSN used
// for local runs and the service tests.
package memstore

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/server/models"
)

// DSN selects the in-memory store instead of PostgreSQL.
const DSN = "memory"

var errRawSQL = errors.New("memstore: raw SQL is not supported")

type grantKey struct {
	userID   string
	promptID string
}

type data struct {
	profiles map[string]models.Profile
	prompts  map[string]models.Prompt
	secrets  map[string]string
	grants   map[grantKey]time.Time
}

func (d *data) clone() *data {
	return &data{
		profiles: maps.Clone(d.profiles),
		prompts:  maps.Clone(d.prompts),
		secrets:  maps.Clone(d.secrets),
		grants:   maps.Clone(d.grants),
	}
}

// Store holds all tables. The zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	data *data
	now  func() time.Time
}

func New() *Store {
	return &Store{
		data: &data{
			profiles: map[string]models.Profile{},
			prompts:  map[string]models.Prompt{},
			secrets:  map[string]string{},
			grants:   map[grantKey]time.Time{},
		},
		now: time.Now,
	}
}

// conn is the DBTX handed to repositories. Inside WithTx the store mutex is
// already held and inTx is set; otherwise every call locks on its own.
type conn struct {
	s    *Store
	inTx bool
}

func (c *conn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errRawSQL
}

func (c *conn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errRawSQL
}

// QueryRowContext cannot build a *sql.Row outside database/sql; repositories
// of this package never call it.
func (c *conn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	panic(errRawSQL)
}

// view runs fn with exclusive access to the current data.
func (c *conn) view(fn func(d *data) error) error {
	if !c.inTx {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
	}
	return fn(c.s.data)
}

// Conn returns a non-transactional handle.
func (s *Store) Conn() dbx.DBTX {
	return &conn{s: s}
}

// WithTx runs fn atomically. A returned error or a panic restores the data
// as it was before fn started.
func (s *Store) WithTx(ctx context.Context, _ *sql.TxOptions, fn dbx.TxFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(ctx, &conn{s: s, inTx: true})
}

func (s *Store) connOf(db dbx.DBTX) *conn {
	if c, ok := db.(*conn); ok && c.s == s {
		return c
	}
	return &conn{s: s}
}

// AddPrompt inserts or replaces a catalog entry and its secret text.
func (s *Store) AddPrompt(p models.Prompt, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.data.prompts[p.ID] = p
	s.data.secrets[p.ID] = secret
}

// Seed loads a small sample catalog.
func (s *Store) Seed() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.AddPrompt(models.Prompt{
		ID: "6b0f4f3c-1d8e-4b6a-9d3e-2a4c5e7f8a01", Title: "Neon Alley Portrait",
		Description: "Rain-soaked cyberpunk street portrait.", ImageURL: "prompts/neon-alley.jpg",
		AIModel: models.DefaultAIModel, Category: models.DefaultCategory, Author: models.DefaultAuthor,
		IsTrending: true, RatingAvg: 4.8, CreatedAt: base.Add(2 * time.Hour),
	}, "Portrait of a lone figure in a neon-lit alley, heavy rain, reflections on wet asphalt, 35mm, f/1.4.")
	s.AddPrompt(models.Prompt{
		ID: "6b0f4f3c-1d8e-4b6a-9d3e-2a4c5e7f8a02", Title: "Product Shot on Marble",
		Description: "Studio product photography setup.", ImageURL: "https://images.example.com/marble.jpg",
		AIModel: "Midjourney v6", Category: "Photography", Author: models.DefaultAuthor,
		RatingAvg: 4.2, CreatedAt: base.Add(time.Hour),
	}, "Minimal product shot on white Carrara marble, soft window light, 85mm macro, shallow depth of field.")
	s.AddPrompt(models.Prompt{
		ID: "6b0f4f3c-1d8e-4b6a-9d3e-2a4c5e7f8a03", Title: "Cold Email Opener",
		AIModel: models.DefaultAIModel, Category: "Writing", Author: models.DefaultAuthor, CreatedAt: base,
	}, "Write a two-sentence cold email opener for {role} at {company} that references {recent_event}.")
}
