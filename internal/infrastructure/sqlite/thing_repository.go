package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/cachemanager"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/thing"
)

// ThingCacheKey keys cached things.
type ThingCacheKey string

const (
	thingKeyPrefix = "thing:"
	thingCacheTTL  = 5 * time.Minute
)

func thingKey(id uuid.UUID) ThingCacheKey {
	return ThingCacheKey(thingKeyPrefix + id.String())
}

// ThingRepository implements thing.Store over the things table. Single-thing
// reads go through a read-through cache that Save and Invalidate keep honest.
type ThingRepository struct {
	db    *DB
	cache *cachemanager.ReadThroughCache[ThingCacheKey, *thing.Thing, uuid.UUID]
	now   func() time.Time
}

var _ thing.Store = (*ThingRepository)(nil)

// NewThingRepository creates a repository. A nil cache disables caching.
func NewThingRepository(db *DB, cache cachemanager.CacheManager[ThingCacheKey, *thing.Thing]) *ThingRepository {
	r := &ThingRepository{db: db, now: time.Now}
	skip := cache == nil
	if skip {
		cache = cachemanager.NewInMemoryCacheManager[ThingCacheKey, *thing.Thing]("things", 0, 0)
	}
	r.cache = cachemanager.NewReadThroughCache(cache, r.load, skip)
	return r
}

// NewCachedThingRepository creates a repository with an in-memory cache.
func NewCachedThingRepository(db *DB) *ThingRepository {
	return NewThingRepository(db, cachemanager.NewInMemoryCacheManager[ThingCacheKey, *thing.Thing](
		"things", thingCacheTTL, cachemanager.DefaultCleanupInterval))
}

// Get returns a copy of the thing with id, or thing.ErrNotFound.
func (r *ThingRepository) Get(ctx context.Context, id uuid.UUID) (*thing.Thing, error) {
	t, err := r.cache.GetWithRefresh(ctx, thingKey(id), id, thingCacheTTL)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (r *ThingRepository) load(ctx context.Context, id uuid.UUID) (*thing.Thing, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+thingColumns+` FROM things WHERE id = ?`, id.String())
	m, err := scanThing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, thing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thing %s: %w", id, err)
	}
	return m.toThing()
}

// List returns every thing of kind ordered by short name.
func (r *ThingRepository) List(ctx context.Context, kind thing.ClassKind) ([]*thing.Thing, error) {
	return r.query(ctx, `SELECT `+thingColumns+` FROM things WHERE kind = ? ORDER BY short_name, id`, kind.String())
}

// Children returns the things contained by id ordered by short name.
func (r *ThingRepository) Children(ctx context.Context, id uuid.UUID) ([]*thing.Thing, error) {
	return r.query(ctx, `SELECT `+thingColumns+` FROM things WHERE container_id = ? ORDER BY short_name, id`, id.String())
}

func (r *ThingRepository) query(ctx context.Context, q string, args ...any) ([]*thing.Thing, error) {
	rows, err := r.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query things: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*thing.Thing
	for rows.Next() {
		m, err := scanThing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thing: %w", err)
		}
		t, err := m.toThing()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save inserts or updates t. The stored revision is one past the previous
// row's, starting at 1.
func (r *ThingRepository) Save(ctx context.Context, t *thing.Thing) (*thing.Thing, error) {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save thing: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var prev int
	err = tx.QueryRowContext(ctx, `SELECT revision FROM things WHERE id = ?`, t.ID.String()).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("save thing %s: %w", t.ID, err)
	}

	saved := t.Clone()
	saved.Revision = prev + 1
	saved.UpdatedAt = r.now()
	m := fromThing(saved)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO things (`+thingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			short_name = excluded.short_name,
			description = excluded.description,
			container_id = excluded.container_id,
			data_source = excluded.data_source,
			revision = excluded.revision,
			updated_at = excluded.updated_at`,
		m.ID, m.Kind, m.Name, m.ShortName, m.Description, m.ContainerID, m.DataSource, m.Revision, m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save thing %s: %w", t.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save thing %s: %w", t.ID, err)
	}

	r.cache.Invalidate(ctx, thingKey(saved.ID))
	log.Debug(log.CatStore, "thing saved", "id", saved.ID, "kind", saved.Kind, "revision", saved.Revision)
	return saved, nil
}

// Invalidate drops every cached thing. Called when the database file changes
// underneath the process.
func (r *ThingRepository) Invalidate(ctx context.Context) {
	r.cache.InvalidatePrefix(ctx, thingKeyPrefix)
	log.Debug(log.CatCache, "thing cache invalidated")
}
