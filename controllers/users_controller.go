package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/dto"
	"github.com/hazratullahh/eceomerce-jawad/middleware"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// currentUserID reads the authenticated user's id from the context.
func currentUserID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid auth context"})
		return bson.ObjectID{}, false
	}
	return id, true
}

// GET /users
func GetUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondError(c, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

// POST /users
func CreateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateUserDTO
		if !bindJSON(c, &body) {
			return
		}
		user, err := svc.Create(c.Request.Context(), services.UserInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     models.Role(body.Role),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// PUT /users/:id
func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "User")
		if !ok {
			return
		}
		var body dto.UpdateUserDTO
		if !bindJSON(c, &body) {
			return
		}
		user, err := svc.Update(c.Request.Context(), id, services.UserInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     models.Role(body.Role),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DELETE /users/:id
func DeleteUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "User")
		if !ok {
			return
		}
		actor, ok := currentUserID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), actor, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// POST /register
func Register(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterUserDTO
		if !bindJSON(c, &body) {
			return
		}
		user, err := svc.Register(c.Request.Context(), body.Name, body.Email, body.Password)
		if err != nil {
			var conflict *services.ConflictError
			if errors.As(err, &conflict) {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// POST /users/me/password
func ChangeMyPassword(svc *services.AuthService, cookie utils.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if !bindJSON(c, &body) {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		utils.ClearRefreshCookie(c, cookie)
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
