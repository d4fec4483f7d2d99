package routes

import (
	"store_vision/internal/controllers"
	"store_vision/internal/middleware"

	"github.com/gin-gonic/gin"
)

func StoreRoutes(r *gin.Engine) {
	// Public reads for the dashboard and map
	r.GET("/stores", controllers.ListStores)
	r.GET("/stores/geojson", controllers.StoresGeoJSON)
	r.GET("/stores/:id", controllers.GetStore)

	// Mutations are for store owners only
	owner := r.Group("/")
	owner.Use(middleware.RequireAuthWithRole("owner"))
	{
		owner.POST("/stores", controllers.CreateStore)
		owner.PATCH("/stores/:id", controllers.UpdateStore)
		owner.DELETE("/stores/:id", controllers.DeleteStore)
		owner.GET("/my-stores", controllers.ListMyStores)
	}
}
