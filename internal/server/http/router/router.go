package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/loyaltyengine/internal/server/http/handlers"
	"github.com/polkiloo/loyaltyengine/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoyaltyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Compression())

	authHandler := handlers.NewAuthHandler(facade)
	purchaseHandler := handlers.NewPurchaseHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)
	rewardsHandler := handlers.NewRewardsHandler(facade)

	api := engine.Group("/api")
	api.GET("/rewards", rewardsHandler.List)
	api.GET("/discount", rewardsHandler.Discount)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/purchases", purchaseHandler.Upload)
	userAuth.GET("/purchases", purchaseHandler.List)
	userAuth.GET("/balance", accountHandler.Balance)
	userAuth.GET("/tier", accountHandler.Tier)
	userAuth.GET("/transactions", accountHandler.Transactions)
	userAuth.GET("/redemptions", accountHandler.Redemptions)
	userAuth.POST("/rewards/:id/redeem", rewardsHandler.Redeem)

	return engine
}
