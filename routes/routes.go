package routes

import (
	"github.com/gin-gonic/gin"

	"cart-store/controllers"
	"cart-store/middleware"
)

// RegisterCartRoutes sets up all cart-related routes.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware())

	cart.GET("", cc.GetCart)
	cart.POST("/items", cc.AddItem)
	cart.PATCH("/items/:product_id", cc.UpdateItem)
	cart.PUT("/items/:product_id/quantity", cc.SetQuantity)
	cart.DELETE("/items/:product_id", cc.RemoveItem)
	cart.POST("/items/remove", cc.RemoveItems)
	cart.DELETE("", cc.ClearCart)
}

// RegisterSessionRoutes sets up the local session cache routes. The session
// endpoints carry the identity themselves, so no auth middleware applies.
func RegisterSessionRoutes(r *gin.Engine, sc *controllers.SessionController) {
	session := r.Group("/session")

	session.PUT("", sc.SaveSession)
	session.GET("", sc.GetSession)
	session.DELETE("", sc.ClearSession)
}
