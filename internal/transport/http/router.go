package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/bazarghat/backend/internal/handlers"
	"github.com/bazarghat/backend/internal/jwtmiddleware"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	VerifyHandler   *handlers.VerifyHandler
	BusinessHandler *handlers.BusinessHandler
	ProductHandler  *handlers.ProductHandler
	UploadHandler   *handlers.UploadHandler
	SearchHandler   *handlers.SearchHandler
	AuthMW          *jwtmiddleware.Middleware
	StaticDir       string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/static", d.StaticDir)

	v1 := e.Group("/api/v1")

	v1.POST("/registration", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.GET("/verify/:token", d.VerifyHandler.Verify)
	v1.GET("/search", d.SearchHandler.Search)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/business/:id", d.BusinessHandler.GetBusiness)

	private := v1.Group("", d.AuthMW.RequireAuth)

	private.GET("/users/me", d.AuthHandler.Me)
	private.PUT("/business", d.BusinessHandler.UpdateBusiness)

	private.POST("/products", d.ProductHandler.CreateProduct)
	private.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	private.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	private.POST("/upload/profile", d.UploadHandler.UploadProfile)
	private.POST("/upload/product/:id", d.UploadHandler.UploadProduct)
}
