package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of catalog categories.
type Category string

const (
	CategorySofas    Category = "Sofas"
	CategoryTables   Category = "Tables"
	CategoryLighting Category = "Lighting"
	CategoryChairs   Category = "Chairs"
	CategoryBeds     Category = "Beds"
	CategoryTextiles Category = "Textiles"
	CategoryOutdoor  Category = "Outdoor"
	CategoryDecor    Category = "Home Decor"
)

// Categories lists every valid catalog category.
func Categories() []Category {
	return []Category{
		CategorySofas, CategoryTables, CategoryLighting, CategoryChairs,
		CategoryBeds, CategoryTextiles, CategoryOutdoor, CategoryDecor,
	}
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Color is a named swatch shown on the product page.
type Color struct {
	Name string `bson:"name" json:"name"`
	Hex  string `bson:"hex" json:"hex"`
}

// Dimensions are in centimetres.
type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// Review is embedded in the product document. At most one review per user is
// kept; a resubmission overwrites the existing entry in place.
type Review struct {
	User             primitive.ObjectID `bson:"user" json:"user"`
	Rating           int                `bson:"rating" json:"rating"`
	Comment          string             `bson:"comment,omitempty" json:"comment,omitempty"`
	VerifiedPurchase bool               `bson:"verifiedPurchase" json:"verifiedPurchase"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Product is a catalog item with its reviews embedded.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    Category           `bson:"category" json:"category"`
	Material    string             `bson:"material,omitempty" json:"material,omitempty"`
	Dimensions  *Dimensions        `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Stock       int                `bson:"stock" json:"stock"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	Colors      []Color            `bson:"colors,omitempty" json:"colors,omitempty"`

	IsFeatured   bool `bson:"isFeatured" json:"isFeatured"`
	IsNewArrival bool `bson:"isNewArrival" json:"isNewArrival"`

	Reviews []Review `bson:"reviews,omitempty" json:"reviews,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ReviewCount returns the number of embedded reviews.
func (p *Product) ReviewCount() int { return len(p.Reviews) }

// AverageRating is the mean rating rounded to one decimal place, derived on
// read and never stored. Zero when the product has no reviews.
func (p *Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(p.Reviews))
	return math.Round(mean*10) / 10
}
