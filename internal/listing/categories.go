package listing

import "fmt"

// Category is a named media bucket with image-count bounds, derived from the
// draft's property type and room counts.
type Category struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	MinImages   int    `json:"minImages"`
	MaxImages   int    `json:"maxImages,omitempty"`
}

// CategoryLegalDocs is the pseudo-category for ownership/approval documents.
// It never appears in GenerateCategories output; the upload orchestrator
// routes it into the draft's legalDocuments slots instead.
const CategoryLegalDocs = "legalDocs"

var residentialTypes = []string{
	"Self Contained", "Mini Flat", "Flat/Apartment", "Bungalow",
	"Detached Duplex", "Semi-Detached Duplex", "Terraced Duplex", "Mansion",
	"Serviced Apartment",
}

var commercialTypes = []string{"Commercial", "Office", "Warehouse"}

// GenerateCategories derives the ordered media-category list for the draft.
// Category ids for repeated rooms are index-based (bedroom_1, bedroom_2, ...)
// so regenerating after unrelated field changes never reshuffles existing
// uploads; only a room-count change adds or removes trailing slots.
func GenerateCategories(d *Draft) []Category {
	typ := d.PropertyType
	var cats []Category

	if typ != "Plot" {
		cats = append(cats, Category{
			ID: "cover", Label: "Cover Photo",
			Description: "Main property image (required)",
			Required:    true, MinImages: 1, MaxImages: 1,
		})
	}

	switch {
	case contains(residentialTypes, typ):
		cats = append(cats,
			Category{
				ID: "exterior", Label: "Exterior/Building",
				Description: "Outside views, facade, compound",
				Required:    true, MinImages: 2, MaxImages: 7,
			},
			Category{
				ID: "living", Label: "Living Room",
				Description: "Main living area",
				Required:    true, MinImages: 2, MaxImages: 4,
			},
		)

		for i := 1; i <= d.Bedrooms; i++ {
			label := fmt.Sprintf("Bedroom %d", i)
			if i == 1 {
				label += " (Master)"
			}
			cats = append(cats, Category{
				ID: fmt.Sprintf("bedroom_%d", i), Label: label,
				Description: fmt.Sprintf("Photos of bedroom %d", i),
				Required:    true, MinImages: 1, MaxImages: 4,
			})
		}

		for i := 1; i <= d.Bathrooms; i++ {
			cats = append(cats, Category{
				ID: fmt.Sprintf("bathroom_%d", i), Label: fmt.Sprintf("Bathroom %d", i),
				Description: "Toilet, shower, fixtures",
				Required:    true, MinImages: 1, MaxImages: 4,
			})
		}

		for i := 1; i <= d.Kitchens; i++ {
			label := "Kitchen"
			if d.Kitchens > 1 {
				label = fmt.Sprintf("Kitchen %d", i)
			}
			cats = append(cats, Category{
				ID: fmt.Sprintf("kitchen_%d", i), Label: label,
				Description: "Cabinets, appliances, countertops",
				Required:    true, MinImages: 1, MaxImages: 4,
			})
		}

		for i := 1; i <= d.Balconies; i++ {
			label := "Balcony"
			if d.Balconies > 1 {
				label = fmt.Sprintf("Balcony %d", i)
			}
			cats = append(cats, Category{
				ID: fmt.Sprintf("balcony_%d", i), Label: label,
				Description: "Outdoor space, view",
				MinImages:   1, MaxImages: 4,
			})
		}

		for i, room := range d.AdditionalRooms {
			label := room
			if label == "" {
				label = fmt.Sprintf("Additional Room %d", i+1)
			}
			cats = append(cats, Category{
				ID: fmt.Sprintf("additional_%d", i), Label: label,
				Description: "Other spaces",
				MinImages:   1, MaxImages: 4,
			})
		}

		cats = append(cats,
			Category{ID: "dining", Label: "Dining Area", Description: "Dining space (optional)", MinImages: 1},
			Category{ID: "parking", Label: "Parking", Description: "Garage, parking space", MinImages: 1},
			Category{ID: "other", Label: "Other", Description: "Additional photos"},
		)

	case contains(commercialTypes, typ):
		cats = append(cats,
			Category{
				ID: "exterior", Label: "Building Exterior",
				Description: "Front view, parking area, signage",
				Required:    true, MinImages: 2, MaxImages: 6,
			},
			Category{
				ID: "interior", Label: "Interior Spaces",
				Description: "Office/workshop interiors",
				Required:    true, MinImages: 2, MaxImages: 8,
			},
			Category{
				ID: "utilities", Label: "Utilities & Facilities",
				Description: "Power, lighting, storage, etc.",
				MinImages:   1, MaxImages: 4,
			},
			Category{
				ID: "parking", Label: "Parking Area",
				Description: "Parking lot or loading bay",
				MinImages:   1, MaxImages: 4,
			},
		)

	case typ == "Plot":
		cats = append(cats,
			Category{
				ID: "land", Label: "Land Area",
				Description: "Full land view, terrain, access roads",
				Required:    true, MinImages: 2, MaxImages: 6,
			},
			Category{
				ID: "beacon", Label: "Beacons / Boundaries",
				Description: "Show land demarcations and survey pegs",
				MinImages:   1, MaxImages: 4,
			},
			Category{
				ID: "neighbourhood", Label: "Neighbourhood View",
				Description: "Nearby facilities or landmarks",
				MinImages:   1, MaxImages: 4,
			},
		)
	}

	return cats
}
