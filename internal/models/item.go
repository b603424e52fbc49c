package models

import (
	"time"

	"github.com/lib/pq"
)

// ItemCategory is the closed category enumeration shared by lost and found
// listings.
var ItemCategories = []string{
	"Electronics",
	"Clothing",
	"ID",
	"Accessories",
	"Books",
	"Bags",
	"Keys",
	"Documents",
	"Wallets",
	"Sports Equipment",
	"Other",
}

// LostItemStatus values.
const (
	LostStatusLost     = "Lost"
	LostStatusFound    = "Found"
	LostStatusArchived = "Archived"
)

// FoundItemStatus values.
const (
	FoundStatusFound    = "Found"
	FoundStatusReturned = "Returned"
	FoundStatusArchived = "Archived"
)

// LostItem represents a lost-and-found listing posted by a user looking for
// their item. PostedBy is a strong reference used for authorization.
type LostItem struct {
	ID           string         `db:"id" json:"id"`
	Description  string         `db:"description" json:"description"`
	Images       pq.StringArray `db:"images" json:"images"`
	DateLost     time.Time      `db:"date_lost" json:"dateLost"`
	LocationLost string         `db:"location_lost" json:"locationLost"`
	Category     string         `db:"category" json:"category"`
	OwnerName    string         `db:"owner_name" json:"ownerName"`
	OwnerContact string         `db:"owner_contact" json:"ownerContact"`
	PostedByID   string         `db:"posted_by" json:"-"`
	PostedBy     *UserRef       `db:"-" json:"postedBy,omitempty"`
	Status       string         `db:"status" json:"status"`
	IsArchived   bool           `db:"is_archived" json:"isArchived"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// FoundItem represents an item handed in by a finder.
type FoundItem struct {
	ID            string         `db:"id" json:"id"`
	Description   string         `db:"description" json:"description"`
	Images        pq.StringArray `db:"images" json:"images"`
	DateFound     time.Time      `db:"date_found" json:"dateFound"`
	LocationFound string         `db:"location_found" json:"locationFound"`
	Category      string         `db:"category" json:"category"`
	FinderName    string         `db:"finder_name" json:"finderName"`
	FinderContact string         `db:"finder_contact" json:"finderContact"`
	PostedByID    string         `db:"posted_by" json:"-"`
	PostedBy      *UserRef       `db:"-" json:"postedBy,omitempty"`
	Status        string         `db:"status" json:"status"`
	IsArchived    bool           `db:"is_archived" json:"isArchived"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// ItemFilter captures list criteria shared by both listing types.
type ItemFilter struct {
	Status          string
	Category        string
	IncludeArchived bool
}

// ValidItemCategory reports whether the category is part of the enumeration.
func ValidItemCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}
