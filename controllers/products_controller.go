package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/dto"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"github.com/hazratullahh/eceomerce-jawad/utils"
)

func productInput(body dto.ProductDTO) services.ProductInput {
	in := services.ProductInput{
		Name:               body.Name.Model(),
		OriginalPrice:      body.OriginalPrice,
		DiscountPercentage: body.DiscountPercentage,
		Images:             dto.ImagesModel(body.Images),
		SaleText:           body.SaleText.Model(),
		Category:           body.Category,
		Description:        body.Description.Model(),
		Sizes:              body.Sizes,
		SKU:                body.SKU,
		Materials:          body.Materials.Model(),
		CareInstructions:   dto.BilingualList(body.CareInstructions),
		Details:            dto.BilingualList(body.Details),
		Version:            body.Version,
	}
	if body.Price != nil {
		in.Price = *body.Price
	}
	if body.Quantity != nil {
		in.Quantity = *body.Quantity
	}
	if body.Dimensions != nil {
		in.Dimensions = make([]models.Dimension, 0, len(body.Dimensions))
		for _, d := range body.Dimensions {
			in.Dimensions = append(in.Dimensions, d.Model())
		}
	}
	return in
}

func AddProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ProductDTO
		if !bindJSON(c, &body) {
			return
		}
		product, err := svc.Create(c.Request.Context(), productInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// GetProducts lists products. category may be an id or a slug.
func GetProducts(svc *services.ProductService, defaultLimit, maxLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, skip := utils.Pagination(c.Query("page"), c.Query("limit"), defaultLimit, maxLimit)

		items, total, err := svc.List(c.Request.Context(),
			c.Query("category"),
			strings.TrimSpace(c.Query("q")),
			database.Page{Skip: skip, Limit: int64(limit)},
		)
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []models.Product{}
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func GetProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Product")
		if !ok {
			return
		}
		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func UpdateProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Product")
		if !ok {
			return
		}
		var body dto.ProductDTO
		if !bindJSON(c, &body) {
			return
		}
		product, err := svc.Update(c.Request.Context(), id, productInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Product")
		if !ok {
			return
		}
		if _, err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
