package memstore

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/grants"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/prompts"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/secrets"
)

// Manager vends repositories over a Store.
type Manager struct {
	s *Store
}

var _ repomanager.RepositoryManager = (*Manager)(nil)

func NewManager(s *Store) *Manager {
	return &Manager{s: s}
}

// RunMigrations is a no-op: the schema is implicit.
func (m *Manager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *Manager) Profiles(db dbx.DBTX) profiles.Repository {
	return &profileRepo{c: m.s.connOf(db)}
}

func (m *Manager) Prompts(db dbx.DBTX) prompts.Repository {
	return &promptRepo{c: m.s.connOf(db)}
}

func (m *Manager) Grants(db dbx.DBTX) grants.Repository {
	return &grantRepo{c: m.s.connOf(db)}
}

func (m *Manager) Secrets(db dbx.DBTX) secrets.Repository {
	return &secretRepo{c: m.s.connOf(db)}
}

type profileRepo struct{ c *conn }

func (r *profileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	var out *models.Profile
	err := r.c.view(func(d *data) error {
		p, ok := d.profiles[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *profileRepo) Insert(_ context.Context, p *models.Profile) (bool, error) {
	var created bool
	err := r.c.view(func(d *data) error {
		if _, ok := d.profiles[p.ID]; ok {
			return nil
		}
		row := *p
		if row.CreatedAt.IsZero() {
			row.CreatedAt = r.c.s.now()
		}
		d.profiles[p.ID] = row
		created = true
		return nil
	})
	return created, err
}

func (r *profileRepo) LockCoins(_ context.Context, id string) (int64, error) {
	var coins int64
	err := r.c.view(func(d *data) error {
		p, ok := d.profiles[id]
		if !ok {
			return common.ErrorNotFound
		}
		coins = p.Coins
		return nil
	})
	return coins, err
}

func (r *profileRepo) DebitCoin(_ context.Context, id string) (int64, error) {
	var coins int64
	err := r.c.view(func(d *data) error {
		p, ok := d.profiles[id]
		if !ok || p.Coins < 1 {
			return common.ErrInsufficientBalance
		}
		p.Coins--
		d.profiles[id] = p
		coins = p.Coins
		return nil
	})
	return coins, err
}

type promptRepo struct{ c *conn }

func (r *promptRepo) List(context.Context) ([]*models.Prompt, error) {
	out := make([]*models.Prompt, 0)
	err := r.c.view(func(d *data) error {
		for _, p := range d.prompts {
			out = append(out, &p)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *models.Prompt) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

func (r *promptRepo) GetByID(_ context.Context, id string) (*models.Prompt, error) {
	var out *models.Prompt
	err := r.c.view(func(d *data) error {
		p, ok := d.prompts[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *promptRepo) Exists(_ context.Context, id string) (bool, error) {
	var ok bool
	err := r.c.view(func(d *data) error {
		_, ok = d.prompts[id]
		return nil
	})
	return ok, err
}

func (r *promptRepo) IncrementUnlockCount(_ context.Context, id string) error {
	return r.c.view(func(d *data) error {
		p, ok := d.prompts[id]
		if !ok {
			return common.ErrorNotFound
		}
		p.UnlockCount++
		d.prompts[id] = p
		return nil
	})
}

type grantRepo struct{ c *conn }

func (r *grantRepo) Exists(_ context.Context, userID, promptID string) (bool, error) {
	var ok bool
	err := r.c.view(func(d *data) error {
		_, ok = d.grants[grantKey{userID, promptID}]
		return nil
	})
	return ok, err
}

func (r *grantRepo) Insert(_ context.Context, userID, promptID string) error {
	return r.c.view(func(d *data) error {
		if _, ok := d.profiles[userID]; !ok {
			return common.ErrorNotFound
		}
		if _, ok := d.prompts[promptID]; !ok {
			return common.ErrorNotFound
		}
		k := grantKey{userID, promptID}
		if _, ok := d.grants[k]; ok {
			return common.ErrConflict
		}
		d.grants[k] = r.c.s.now()
		return nil
	})
}

func (r *grantRepo) ListPromptIDs(_ context.Context, userID string) ([]string, error) {
	type owned struct {
		id string
		at int64
	}
	var rows []owned
	err := r.c.view(func(d *data) error {
		for k, at := range d.grants {
			if k.userID == userID {
				rows = append(rows, owned{k.promptID, at.UnixNano()})
			}
		}
		return nil
	})
	slices.SortFunc(rows, func(a, b owned) int {
		return cmp.Or(cmp.Compare(a.at, b.at), cmp.Compare(a.id, b.id))
	})
	ids := make([]string, 0, len(rows))
	for _, o := range rows {
		ids = append(ids, o.id)
	}
	return ids, err
}

// secretRepo has no session settings to carry; SetViewer is accepted and
// visibility is decided by the grant lookup alone.
type secretRepo struct{ c *conn }

func (r *secretRepo) SetViewer(context.Context, string) error {
	return nil
}

func (r *secretRepo) GetForViewer(_ context.Context, userID, promptID string) (string, error) {
	var text string
	err := r.c.view(func(d *data) error {
		if _, ok := d.grants[grantKey{userID, promptID}]; !ok {
			return common.ErrForbidden
		}
		s, ok := d.secrets[promptID]
		if !ok {
			return common.ErrForbidden
		}
		text = s
		return nil
	})
	return text, err
}
