package db

import (
	"context"
	"fmt"

	"github.com/aleodoni/meetapp/internal/models"
	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateFile(ctx context.Context, file *models.File) error {
	if _, err := d.Bun.NewInsert().Model(file).Exec(ctx); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}
