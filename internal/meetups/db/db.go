package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateMeetup(ctx context.Context, meetup *models.Meetup) error {
	if _, err := d.Bun.NewInsert().Model(meetup).Exec(ctx); err != nil {
		return fmt.Errorf("insert meetup: %w", err)
	}
	return nil
}

func (d *DB) GetMeetupByID(ctx context.Context, id int64) (*models.Meetup, error) {
	meetup := new(models.Meetup)
	err := d.Bun.NewSelect().
		Model(meetup).
		Where("m.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFound("Meetup")
	}
	if err != nil {
		return nil, fmt.Errorf("select meetup %d: %w", id, err)
	}
	return meetup, nil
}

// UpdateMeetup writes the editable columns. The organizer is never changed.
func (d *DB) UpdateMeetup(ctx context.Context, meetup *models.Meetup) error {
	res, err := d.Bun.NewUpdate().
		Model(meetup).
		Column("titulo", "descricao", "localizacao", "data_hora", "banner_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update meetup %d: %w", meetup.ID, err)
	}
	return expectAffected(res, meetup.ID)
}

func (d *DB) DeleteMeetup(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Meetup)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete meetup %d: %w", id, err)
	}
	return expectAffected(res, id)
}

// ListMeetupsByOrganizer returns one page of an organizer's meetups ordered by
// date, with the organizer and banner joined in.
func (d *DB) ListMeetupsByOrganizer(ctx context.Context, organizerID int64, limit, offset int) ([]models.Meetup, error) {
	var meetups []models.Meetup
	err := d.Bun.NewSelect().
		Model(&meetups).
		Column("m.id", "m.titulo", "m.descricao", "m.localizacao", "m.data_hora").
		Relation("Organizer", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Relation("Banner", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "path")
		}).
		Where("m.user_id = ?", organizerID).
		OrderExpr("m.data_hora ASC, m.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetups for user %d: %w", organizerID, err)
	}
	return meetups, nil
}

func expectAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for meetup %d: %w", id, err)
	}
	if n == 0 {
		return errs.NewNotFound("Meetup")
	}
	return nil
}
