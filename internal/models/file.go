package models

import (
	"time"

	"github.com/uptrace/bun"
)

// File is an uploaded image. Path is the stored file name; URL is derived
// from the public application address and never persisted.
type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Path      string    `bun:"path,unique,notnull" json:"path"`
	URL       string    `bun:"-" json:"url"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
