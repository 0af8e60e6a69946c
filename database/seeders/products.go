package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/furnistor/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small starter catalog. It is a no-op when the
// products collection already has documents, so reseeding is safe.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("products")

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	catalog := []models.Product{
		{
			Title:       "Nordlys three-seater sofa",
			Brand:       "Fjordform",
			Price:       1299.00,
			Description: "Deep-seated three-seater with removable bouclé covers.",
			Category:    models.CategorySofas,
			Material:    "beech, bouclé wool",
			Dimensions:  &models.Dimensions{Length: 228, Width: 95, Height: 82},
			Stock:       8,
			Colors: []models.Color{
				{Name: "Oat", Hex: "#E6DDCB"},
				{Name: "Slate", Hex: "#5C6670"},
			},
			IsFeatured: true,
		},
		{
			Title:       "Askvik oak dining table",
			Brand:       "Fjordform",
			Price:       849.50,
			Description: "Solid oak table for six, finished with hardwax oil.",
			Category:    models.CategoryTables,
			Material:    "oak (solid)",
			Dimensions:  &models.Dimensions{Length: 180, Width: 90, Height: 75},
			Stock:       12,
			IsFeatured:  true,
		},
		{
			Title:        "Lumi pendant lamp",
			Brand:        "Hygge Light Co.",
			Price:        189.00,
			Description:  "Mouth-blown opal glass pendant with a brass canopy.",
			Category:     models.CategoryLighting,
			Material:     "opal glass, brass",
			Stock:        30,
			IsNewArrival: true,
		},
		{
			Title:       "Bryg lounge chair",
			Brand:       "Atelier Nord",
			Price:       459.00,
			Description: "Curved plywood shell on a powder-coated steel base.",
			Category:    models.CategoryChairs,
			Material:    "walnut veneer, steel",
			Dimensions:  &models.Dimensions{Length: 72, Width: 78, Height: 76},
			Stock:       15,
			Colors: []models.Color{
				{Name: "Walnut", Hex: "#6B4A33"},
			},
		},
		{
			Title:        "Sova bed frame 160",
			Brand:        "Fjordform",
			Price:        999.00,
			Description:  "Low-profile bed frame with an upholstered headboard.",
			Category:     models.CategoryBeds,
			Material:     "pine, linen",
			Stock:        6,
			IsNewArrival: true,
		},
		{
			Title:       "Uld throw blanket",
			Brand:       "Hygge Light Co.",
			Price:       79.00,
			Description: "Herringbone lambswool throw, 130 by 180 centimetres.",
			Category:    models.CategoryTextiles,
			Material:    "lambswool",
			Stock:       50,
		},
	}

	docs := make([]interface{}, 0, len(catalog))
	for i := range catalog {
		catalog[i].CreatedAt = now
		catalog[i].UpdatedAt = now
		docs = append(docs, catalog[i])
	}

	_, err = col.InsertMany(ctx, docs)
	return err
}
