package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/dto"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"github.com/hazratullahh/eceomerce-jawad/utils"
)

func Login(svc *services.AuthService, cookie utils.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if !bindJSON(c, &body) {
			return
		}
		session, err := svc.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SetRefreshCookie(c, cookie, session.RefreshToken, svc.RefreshTTL())
		c.JSON(http.StatusOK, gin.H{"access_token": session.AccessToken})
	}
}

// Refresh rotates the refresh cookie and returns a new access token.
func Refresh(svc *services.AuthService, cookie utils.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(utils.RefreshCookieName)
		session, err := svc.Refresh(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SetRefreshCookie(c, cookie, session.RefreshToken, svc.RefreshTTL())
		c.JSON(http.StatusOK, gin.H{"access_token": session.AccessToken})
	}
}

func Logout(svc *services.AuthService, cookie utils.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(utils.RefreshCookieName)
		utils.ClearRefreshCookie(c, cookie)

		// best effort revoke
		if err := svc.Logout(c.Request.Context(), token); err != nil {
			log.Printf("logout: revoke refresh token: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
