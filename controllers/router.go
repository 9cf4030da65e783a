package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/middleware"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"github.com/hazratullahh/eceomerce-jawad/utils"
)

// App carries everything the handlers need.
type App struct {
	Categories *services.CategoryService
	Products   *services.ProductService
	Customers  *services.CustomerService
	Users      *services.UserService
	Auth       *services.AuthService
	Dashboard  *services.DashboardService
	Images     *services.ImageService

	Issuer         utils.TokenIssuer
	Cookie         utils.CookieOptions
	AllowedOrigins []string
	DefaultLimit   int
	MaxLimit       int
}

func NewRouter(app *App) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range app.AllowedOrigins {
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", app.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/login", Login(app.Auth, app.Cookie))
	r.POST("/auth/refresh", Refresh(app.Auth, app.Cookie))
	r.POST("/auth/logout", Logout(app.Auth, app.Cookie))
	r.POST("/register", Register(app.Users))

	r.GET("/categories", GetCategories(app.Categories, app.DefaultLimit, app.MaxLimit))
	r.GET("/categories/:id", GetCategory(app.Categories))
	r.GET("/categories/slug/:slug", GetCategoryBySlug(app.Categories))
	r.GET("/products", GetProducts(app.Products, app.DefaultLimit, app.MaxLimit))
	r.GET("/products/:id", GetProduct(app.Products))

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(app.Issuer))
	{
		authed.POST("/categories", AddCategory(app.Categories))
		authed.PUT("/categories/:id", UpdateCategory(app.Categories))
		authed.DELETE("/categories/:id", DeleteCategory(app.Categories))

		authed.POST("/products", AddProduct(app.Products))
		authed.PUT("/products/:id", UpdateProduct(app.Products))
		authed.DELETE("/products/:id", DeleteProduct(app.Products))

		authed.POST("/upload-image", UploadImage(app.Images))
		authed.GET("/dashboard-data", GetDashboard(app.Dashboard))
		authed.POST("/users/me/password", ChangeMyPassword(app.Auth, app.Cookie))
	}

	admin := authed.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/customers", GetCustomers(app.Customers))
		admin.GET("/customers/:id", GetCustomer(app.Customers))
		admin.POST("/customers", AddCustomer(app.Customers))
		admin.PUT("/customers/:id", UpdateCustomer(app.Customers))
		admin.DELETE("/customers/:id", DeleteCustomer(app.Customers))
		admin.POST("/customers/referrals/recount", RecountReferrals(app.Customers))

		admin.GET("/users", GetUsers(app.Users))
		admin.POST("/users", CreateUser(app.Users))
		admin.PUT("/users/:id", UpdateUser(app.Users))
		admin.DELETE("/users/:id", DeleteUser(app.Users))
	}
	return r
}
