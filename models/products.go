package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Dimension is one row of a product's size chart: the size label plus its
// bilingual measurement text.
type Dimension struct {
	Size          string `bson:"size" json:"size"`
	BilingualText `bson:",inline"`
}

type Product struct {
	Id                 bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               BilingualText   `bson:"name" json:"name"`
	Slug               string          `bson:"slug" json:"slug"`
	Price              float64         `bson:"price" json:"price"`
	OriginalPrice      *float64        `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	DiscountPercentage *float64        `bson:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	Quantity           int             `bson:"quantity" json:"quantity"`
	Images             []Image         `bson:"images" json:"images"`
	SaleText           *BilingualText  `bson:"saleText,omitempty" json:"saleText,omitempty"`
	Category           bson.ObjectID   `bson:"category" json:"category"`
	Description        *BilingualText  `bson:"description,omitempty" json:"description,omitempty"`
	Sizes              []string        `bson:"sizes" json:"sizes"`
	SKU                string          `bson:"sku,omitempty" json:"sku,omitempty"`
	Materials          *BilingualText  `bson:"materials,omitempty" json:"materials,omitempty"`
	CareInstructions   []BilingualText `bson:"careInstructions" json:"careInstructions"`
	Dimensions         []Dimension     `bson:"dimensions" json:"dimensions"`
	Details            []BilingualText `bson:"details" json:"details"`
	Version            int64           `bson:"version" json:"version"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ImagePublicIDs returns the image store ids of every product image.
func (p *Product) ImagePublicIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	return ids
}
