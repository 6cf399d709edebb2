package router

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(metrics.GinMiddleware())

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（无需设备）
		catalog := apiV1.Group("/catalog")
		{
			catalog.GET("/products", handler.ListProducts)
			catalog.GET("/products/search", handler.SearchProducts)
			catalog.GET("/products/:id", handler.GetProduct)
			catalog.GET("/categories", handler.ListCategories)
			catalog.GET("/categories/:slug/products", handler.ListCategoryProducts)
		}

		// 设备级接口
		device := apiV1.Group("")
		device.Use(DeviceMiddleware(c.Registry))
		{
			auth := device.Group("/auth")
			{
				auth.POST("/register", handler.Register)
				auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
				auth.POST("/logout", handler.Logout)
				auth.GET("/session", handler.GetSession)
			}

			device.GET("/cart", handler.GetCart)
			device.GET("/cart/summary", handler.GetCartSummary)
			device.POST("/cart/items", handler.AddCartItem)
			device.PUT("/cart/items/:id/quantity", handler.UpdateCartItemQuantity)
			device.DELETE("/cart/items/:id", handler.RemoveCartItem)
			device.DELETE("/cart", handler.ClearCart)

			device.GET("/wishlist", handler.GetWishlist)
			device.POST("/wishlist/items", handler.AddWishlistItem)
			device.DELETE("/wishlist/items/:id", handler.RemoveWishlistItem)
			device.DELETE("/wishlist", handler.ClearWishlist)

			device.GET("/notifications", handler.ListNotificationLogs)

			// 用户接口（需鉴权）
			user := device.Group("")
			user.Use(UserJWTAuthMiddleware(c.TokenService))
			{
				user.GET("/me", handler.GetCurrentUser)
				user.GET("/me/profile", handler.GetProfile)
				user.PUT("/me/profile", handler.UpdateProfile)
				user.GET("/addresses", handler.ListAddresses)
				user.POST("/addresses", handler.CreateAddress)
				user.PATCH("/addresses/:id", handler.UpdateAddress)
				user.DELETE("/addresses/:id", handler.DeleteAddress)
				user.GET("/orders", handler.ListOrders)
				user.GET("/orders/:id", handler.GetOrder)
				user.GET("/checkout/preview", handler.PreviewCheckout)
				user.POST("/checkout", handler.Checkout)
			}
		}
	}

	return r
}
