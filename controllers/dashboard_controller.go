package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/services"
)

func GetDashboard(svc *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.Get(c.Request.Context(), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}
