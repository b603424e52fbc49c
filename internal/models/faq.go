package models

import "time"

// FAQ is static reference content shown on the help page, public read only.
type FAQ struct {
	ID           string    `db:"id" json:"id"`
	Question     string    `db:"question" json:"question"`
	Answer       string    `db:"answer" json:"answer"`
	DisplayOrder int       `db:"display_order" json:"order"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
