package models

import (
	"strings"
	"time"
)

type Product struct {
	ID          string    `gorm:"primaryKey" bson:"_id" json:"_id"`
	Name        string    `gorm:"not null" bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `gorm:"not null" bson:"price" json:"price"`
	Images      []string  `gorm:"serializer:json" bson:"image" json:"image"`
	Category    string    `gorm:"index" bson:"category" json:"category"`
	SubCategory string    `bson:"subCategory" json:"subCategory"`
	Sizes       []string  `gorm:"serializer:json" bson:"sizes" json:"sizes"`
	Bestseller  bool      `bson:"bestseller" json:"bestseller"`
	Date        time.Time `bson:"date" json:"date"`
}

// ProductFilter narrows catalog listings. Zero values match everything.
type ProductFilter struct {
	Category    string
	SubCategory string
	Bestseller  bool
	Search      string
}

func (f ProductFilter) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.SubCategory != "" && p.SubCategory != f.SubCategory {
		return false
	}
	if f.Bestseller && !p.Bestseller {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
