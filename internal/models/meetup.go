package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Meetup struct {
	bun.BaseModel `bun:"table:meetups,alias:m"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Title       string    `bun:"titulo,notnull" json:"titulo"`
	Description string    `bun:"descricao,notnull" json:"descricao"`
	Location    string    `bun:"localizacao,notnull" json:"localizacao"`
	ScheduledAt time.Time `bun:"data_hora,notnull" json:"data_hora"`
	BannerID    int64     `bun:"banner_id,nullzero" json:"banner_id"`
	OrganizerID int64     `bun:"user_id,nullzero" json:"user_id"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Organizer *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Banner    *File `bun:"rel:belongs-to,join:banner_id=id" json:"-"`
}

// MeetupInput holds the writable fields of a meetup after validation.
type MeetupInput struct {
	Title       string
	Description string
	Location    string
	ScheduledAt time.Time
	BannerID    int64
}

type OrganizerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BannerSummary struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// MeetupListItem is the projection returned when listing meetups.
type MeetupListItem struct {
	ID          int64             `json:"id"`
	Title       string            `json:"titulo"`
	Description string            `json:"descricao"`
	Location    string            `json:"localizacao"`
	ScheduledAt time.Time         `json:"data_hora"`
	Organizer   *OrganizerSummary `json:"organizer"`
	Banner      *BannerSummary    `json:"banner"`
}

// MeetupEvent is the payload published on meetup lifecycle topics.
type MeetupEvent struct {
	Type        string    `json:"type"`
	MeetupID    int64     `json:"meetup_id"`
	OrganizerID int64     `json:"organizer_id"`
	Title       string    `json:"titulo,omitempty"`
	ScheduledAt time.Time `json:"data_hora,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	MeetupCreated = "meetup.created"
	MeetupUpdated = "meetup.updated"
	MeetupDeleted = "meetup.deleted"
)
