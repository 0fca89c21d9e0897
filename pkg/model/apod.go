package model

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrIncompleteApod is returned when an Apod is missing a mandatory field.
var ErrIncompleteApod = errors.New("apod is missing a mandatory field")

// Apod is an Astronomy Picture of the Day record. The JSON names follow the
// upstream API so a fetched record can be stored and served as is.
type Apod struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Date           string `gorm:"column:date;not null" json:"date"`
	Title          string `gorm:"column:title;not null" json:"title"`
	Explanation    string `gorm:"column:explanation;type:text;not null" json:"explanation"`
	URL            string `gorm:"column:url;not null" json:"url"`
	HDURL          string `gorm:"column:hdurl" json:"hdurl,omitempty"`
	Copyright      string `gorm:"column:copyright" json:"copyright,omitempty"`
	MediaType      string `gorm:"column:media_type" json:"media_type,omitempty"`
	ServiceVersion string `gorm:"column:service_version" json:"service_version,omitempty"`
}

func (Apod) TableName() string {
	return "apods"
}

// Validate reports which mandatory field is empty, if any.
func (a *Apod) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"date", a.Date},
		{"title", a.Title},
		{"explanation", a.Explanation},
		{"url", a.URL},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrIncompleteApod, f.name)
		}
	}
	return nil
}

// BeforeSave refuses to write an incomplete record.
func (a *Apod) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

// ApplyEdit copies the editable fields of edit onto a. Every other field is
// left untouched.
func (a *Apod) ApplyEdit(edit Apod) {
	a.Title = edit.Title
	a.Explanation = edit.Explanation
}
