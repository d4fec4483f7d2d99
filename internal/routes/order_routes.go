package routes

import (
	"store_vision/internal/controllers"
	"store_vision/internal/middleware"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(r *gin.Engine) {
	r.GET("/orders", controllers.ListOrders)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/orders", controllers.PlaceOrder)
	}
}
