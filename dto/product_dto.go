package dto

import (
	"strings"

	"github.com/hazratullahh/eceomerce-jawad/models"
)

type DimensionDTO struct {
	Size string `json:"size" binding:"required"`
	EN   string `json:"en" binding:"required"`
	AR   string `json:"ar"`
}

func (d DimensionDTO) Model() models.Dimension {
	return models.Dimension{
		Size:          strings.TrimSpace(d.Size),
		BilingualText: models.BilingualText{EN: d.EN, AR: d.AR},
	}
}

// ProductDTO is the body of both POST and PUT /products.
// On update, array fields left out of the body keep their stored values,
// while an explicit empty array clears them.
type ProductDTO struct {
	Name               BilingualDTO          `json:"name" binding:"required"`
	Price              *float64              `json:"price" binding:"required,gte=0"`
	OriginalPrice      *float64              `json:"originalPrice" binding:"omitempty,gte=0"`
	DiscountPercentage *float64              `json:"discountPercentage" binding:"omitempty,gte=0,lte=100"`
	Quantity           *int                  `json:"quantity" binding:"required,gte=0"`
	Images             []ImageDTO            `json:"images" binding:"required,min=1,dive"`
	SaleText           *OptionalBilingualDTO `json:"saleText"`
	Category           string                `json:"category" binding:"required"`
	Description        *OptionalBilingualDTO `json:"description"`
	Sizes              []string              `json:"sizes" binding:"omitempty,dive,required"`
	SKU                string                `json:"sku"`
	Materials          *OptionalBilingualDTO `json:"materials"`
	CareInstructions   []BilingualDTO        `json:"careInstructions" binding:"omitempty,dive"`
	Dimensions         []DimensionDTO        `json:"dimensions" binding:"omitempty,dive"`
	Details            []BilingualDTO        `json:"details" binding:"omitempty,dive"`
	Version            *int64                `json:"version" binding:"omitempty,min=1"`
}
