package reconcile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	// ErrIncompleteDraft is returned when a draft misses a required field.
	// It is raised before any remote call is issued.
	ErrIncompleteDraft = errors.New("incomplete draft")
	// ErrLookupFailed is returned when a lookup could not reach the store.
	// It never means "no record exists".
	ErrLookupFailed = errors.New("lookup failed")
	// ErrStoreUnavailable is returned on document store transport failures.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrNotFound is returned when an update or delete targets a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrUploadFailed is returned by media uploaders on transport errors
	// and on missing or invalid handles.
	ErrUploadFailed = errors.New("upload failed")
	// ErrMediaUploadFailed is returned by Commit when the upload step failed
	// and therefore no record was written.
	ErrMediaUploadFailed = errors.New("media upload failed")
	// ErrRemoveFailed is returned when a record could not be removed.
	ErrRemoveFailed = errors.New("remove failed")
	// ErrInvalidField is returned when querying by a field that is not indexed.
	ErrInvalidField = errors.New("invalid query field")
)

// Field names a queryable record attribute.
type Field string

const (
	// FieldCode is the decoded QR value.
	FieldCode Field = "code"
	// FieldAuthor is the name of whoever created or last edited the record.
	FieldAuthor Field = "author"
)

// Valid reports whether the field can be queried.
func (f Field) Valid() bool {
	return f == FieldCode || f == FieldAuthor
}

// Record is the canonical entity associating a scanned code with metadata and media.
type Record struct {
	// ID is assigned by the store on creation and never changes afterwards.
	ID string `json:"id"`
	// Code is the decoded QR value used as lookup key.
	Code string `json:"code"`
	// MediaRef is the durable URL of the associated image.
	MediaRef string `json:"media_ref"`
	// Note is free text attached to the code.
	Note string `json:"note"`
	// Author identifies who created or last edited the record.
	Author string `json:"author"`
	// CreatedAt is written by the store on insert only.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is maintained by the store on every write.
	UpdatedAt time.Time `json:"updated_at"`
}

// Payload is the set of client-writable record fields.
type Payload struct {
	Code     string `json:"code"`
	MediaRef string `json:"media_ref"`
	Note     string `json:"note"`
	Author   string `json:"author"`
}

// Draft is an in-progress, not yet persisted set of record fields.
// Media is either a local handle (path or file:// URI) or a remote URL.
type Draft struct {
	Code   string `json:"code" validate:"notblank"`
	Media  string `json:"media" validate:"notblank"`
	Note   string `json:"note" validate:"notblank"`
	Author string `json:"author" validate:"notblank"`
}

// DraftFrom builds a draft that edits an existing record in place.
func DraftFrom(r Record) Draft {
	return Draft{Code: r.Code, Media: r.MediaRef, Note: r.Note, Author: r.Author}
}

// Missing returns the json names of blank required fields.
func (d Draft) Missing() []string {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Validate returns ErrIncompleteDraft naming the blank fields, or nil.
func (d Draft) Validate() error {
	if missing := d.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(missing, ", "))
	}
	return nil
}

// LookupResult is the outcome of reconciling a scanned code.
type LookupResult struct {
	// Code is the code that was looked up.
	Code string `json:"code"`
	// Record is the canonical match, nil when the code is confirmed absent.
	Record *Record `json:"record,omitempty"`
	// Matches is the number of records the store returned for the code.
	// Values above one mean concurrent creates raced for the same code.
	Matches int `json:"matches"`
}

// Found reports whether a record matched the code.
func (r LookupResult) Found() bool {
	return r.Record != nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}
