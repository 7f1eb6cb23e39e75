package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/thing"
)

// thingModel is one row of the things table.
type thingModel struct {
	ID          string
	Kind        string
	Name        string
	ShortName   string
	Description string
	ContainerID sql.NullString
	DataSource  string
	Revision    int
	UpdatedAt   int64
}

const thingColumns = `id, kind, name, short_name, description, container_id, data_source, revision, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanThing(row scanner) (thingModel, error) {
	var m thingModel
	err := row.Scan(&m.ID, &m.Kind, &m.Name, &m.ShortName, &m.Description,
		&m.ContainerID, &m.DataSource, &m.Revision, &m.UpdatedAt)
	return m, err
}

func fromThing(t *thing.Thing) thingModel {
	m := thingModel{
		ID:          t.ID.String(),
		Kind:        t.Kind.String(),
		Name:        t.Name,
		ShortName:   t.ShortName,
		Description: t.Description,
		DataSource:  t.DataSource,
		Revision:    t.Revision,
		UpdatedAt:   t.UpdatedAt.UnixMilli(),
	}
	if t.Container != nil {
		m.ContainerID = sql.NullString{String: t.Container.String(), Valid: true}
	}
	return m
}

func (m thingModel) toThing() (*thing.Thing, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("thing %q: %w", m.ID, err)
	}
	kind, err := thing.ParseClassKind(m.Kind)
	if err != nil {
		return nil, fmt.Errorf("thing %s: %w", m.ID, err)
	}
	t := &thing.Thing{
		ID:          id,
		Kind:        kind,
		Name:        m.Name,
		ShortName:   m.ShortName,
		Description: m.Description,
		DataSource:  m.DataSource,
		Revision:    m.Revision,
		UpdatedAt:   time.UnixMilli(m.UpdatedAt),
	}
	if m.ContainerID.Valid {
		c, err := uuid.Parse(m.ContainerID.String)
		if err != nil {
			return nil, fmt.Errorf("thing %s container: %w", m.ID, err)
		}
		t.Container = &c
	}
	return t, nil
}
