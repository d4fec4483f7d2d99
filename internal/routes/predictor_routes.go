package routes

import (
	"store_vision/internal/controllers"
	"store_vision/internal/middleware"

	"github.com/gin-gonic/gin"
)

func PredictorRoutes(r *gin.Engine) {
	predictor := r.Group("/predictor")
	predictor.Use(middleware.RequireAuth())
	{
		predictor.POST("/suggest-locations", controllers.SuggestLocations)
		predictor.POST("/reassign-orders", controllers.ReassignOrders)
	}
}
