package models

import (
	"time"

	"qr-registry/core/reconcile"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// TableName is the table holding scanned code records.
const TableName = "qr_records"

// Record is the persisted form of a scanned code record.
type Record struct {
	ID        string    `gorm:"column:id;primaryKey;size:26"`
	Code      string    `gorm:"column:code;not null;index:idx_qr_records_code;size:512"`
	MediaRef  string    `gorm:"column:media_ref;not null;size:2048"`
	Note      string    `gorm:"column:note;not null;type:text"`
	Author    string    `gorm:"column:author;not null;index:idx_qr_records_author;size:255"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_qr_records_created"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the GORM default.
func (Record) TableName() string {
	return TableName
}

// BeforeCreate assigns a ULID when the id is empty.
// ULIDs sort by creation time, which keeps the id tiebreak newest first.
func (r *Record) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	return nil
}

// ToDomain converts the row to the engine's record type.
func (r Record) ToDomain() reconcile.Record {
	return reconcile.Record{
		ID:        r.ID,
		Code:      r.Code,
		MediaRef:  r.MediaRef,
		Note:      r.Note,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromPayload builds a new row from a write payload.
func FromPayload(p reconcile.Payload) Record {
	return Record{
		Code:     p.Code,
		MediaRef: p.MediaRef,
		Note:     p.Note,
		Author:   p.Author,
	}
}

// Columns returns the column set written by an update. created_at is never included.
func Columns(p reconcile.Payload) map[string]any {
	return map[string]any{
		"code":      p.Code,
		"media_ref": p.MediaRef,
		"note":      p.Note,
		"author":    p.Author,
	}
}

// ToDomainList converts a slice of rows.
func ToDomainList(rows []Record) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}
