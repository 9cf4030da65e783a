package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// respondError writes err with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
		forbidden    *services.ForbiddenError
		unauthorized *services.UnauthorizedError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": validation.Fields})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden.Message})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": unauthorized.Message})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context, resource string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Invalid %s ID format", resource)})
		return bson.ObjectID{}, false
	}
	return id, true
}

var registerJSONNames sync.Once

// useJSONFieldNames makes validator report json names instead of Go field
// names.
func useJSONFieldNames() {
	registerJSONNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON binds the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondError(c, &services.ValidationError{Fields: fieldErrors(verrs)})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []services.FieldError{{Field: "body", Message: err.Error()}}})
	return false
}

func fieldErrors(verrs validator.ValidationErrors) []services.FieldError {
	out := make([]services.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		// drop the root struct name
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, services.FieldError{Field: field, Message: fieldMessage(field, fe)})
	}
	return out
}

func fieldMessage(field string, fe validator.FieldError) string {
	if field == "amountWillPay" && fe.Tag() == "min" {
		return fmt.Sprintf("Amount to pay must be at least $%d", models.MinAmountWillPay)
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s", field, lengthUnit(fe))
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s", field, lengthUnit(fe))
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return "Invalid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lengthUnit(fe validator.FieldError) string {
	if fe.Kind() == reflect.Slice {
		return fe.Param() + " item(s)"
	}
	return fe.Param() + " character(s)"
}
