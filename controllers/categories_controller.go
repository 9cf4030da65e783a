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

func categoryInput(body dto.CategoryDTO) services.CategoryInput {
	in := services.CategoryInput{
		Name:        body.Name.Model(),
		Description: body.Description.Model(),
		Version:     body.Version,
	}
	if body.Image != nil {
		img := body.Image.Model()
		in.Image = &img
	}
	return in
}

func AddCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CategoryDTO
		if !bindJSON(c, &body) {
			return
		}

		category, err := svc.Create(c.Request.Context(), categoryInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func GetCategories(svc *services.CategoryService, defaultLimit, maxLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, skip := utils.Pagination(c.Query("page"), c.Query("limit"), defaultLimit, maxLimit)

		items, total, err := svc.List(c.Request.Context(), database.CategoryQuery{
			Search: strings.TrimSpace(c.Query("q")),
			Page:   database.Page{Skip: skip, Limit: int64(limit)},
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []models.Category{}
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func GetCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Category")
		if !ok {
			return
		}
		category, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func GetCategoryBySlug(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := svc.GetBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Category")
		if !ok {
			return
		}
		var body dto.CategoryDTO
		if !bindJSON(c, &body) {
			return
		}

		category, err := svc.Update(c.Request.Context(), id, categoryInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Category")
		if !ok {
			return
		}
		if _, err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
