package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockbustre.backend/internal/interfaces/http/handlers"
	"blockbustre.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	accountHandler     *handlers.AccountHandler
	roleHandler        *handlers.RoleHandler
	contractHandler    *handlers.ContractHandler
	categoryHandler    *handlers.CategoryHandler
	transactionHandler *handlers.TransactionHandler
	billingHandler     *handlers.BillingHandler
	authMiddleware     gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, X-Session-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "blockbustre-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.POST("/password/reset", d.authHandler.RequestPasswordReset)
			auth.POST("/password/reset/confirm", d.authHandler.ConfirmPasswordReset)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.accountHandler.Me)
			auth.POST("/password/change", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Account routes (protected)
		account := v1.Group("/account")
		account.Use(d.authMiddleware)
		{
			account.GET("/profile", d.accountHandler.GetProfile)
			account.PUT("/profile", d.accountHandler.UpdateProfile)
			account.GET("/dashboard", d.accountHandler.Dashboard)
			account.POST("/kyc/request", d.accountHandler.RequestKYC)
			account.GET("/admin-status", d.accountHandler.AdminStatus)
		}

		// Role routes (staff only)
		roles := v1.Group("/roles")
		roles.Use(d.authMiddleware, middleware.RequireStaff())
		{
			roles.GET("", d.roleHandler.List)
			roles.POST("", d.roleHandler.Create)
			roles.POST("/:id/permissions", d.roleHandler.GrantPermission)
			roles.DELETE("/:id/permissions/:codename", d.roleHandler.RevokePermission)
			roles.DELETE("/:id", d.roleHandler.Delete)
		}

		// Contract routes (protected)
		contracts := v1.Group("/contracts")
		contracts.Use(d.authMiddleware)
		{
			contracts.POST("", d.contractHandler.Create)
			contracts.GET("", d.contractHandler.List)
			contracts.GET("/:id", d.contractHandler.Get)
			contracts.PUT("/:id", d.contractHandler.Update)
			contracts.DELETE("/:id", d.contractHandler.Delete)
			contracts.POST("/:id/restore", d.contractHandler.Restore)
			contracts.POST("/:id/estimate", d.contractHandler.Estimate)
			contracts.POST("/:id/submit", d.contractHandler.Submit)
			contracts.POST("/:id/deploy", middleware.RequireStaff(), d.contractHandler.Deploy)
			contracts.GET("/:id/logs", d.contractHandler.DeploymentLogs)
		}

		// Category routes (public read, staff write)
		categories := v1.Group("/categories")
		{
			categories.GET("", d.categoryHandler.ListCategories)
			categories.POST("", d.authMiddleware, middleware.RequireStaff(), d.categoryHandler.CreateCategory)
			categories.DELETE("/:id", d.authMiddleware, middleware.RequireStaff(), d.categoryHandler.DeleteCategory)
		}

		// Template routes (public read, staff write)
		templates := v1.Group("/templates")
		{
			templates.GET("", d.categoryHandler.ListTemplates)
			templates.POST("", d.authMiddleware, middleware.RequireStaff(), d.categoryHandler.CreateTemplate)
			templates.PUT("/:id", d.authMiddleware, middleware.RequireStaff(), d.categoryHandler.UpdateTemplate)
		}

		// Transaction routes (protected)
		transactions := v1.Group("/transactions")
		transactions.Use(d.authMiddleware)
		{
			transactions.POST("", d.transactionHandler.Create)
			transactions.GET("", d.transactionHandler.List)
			transactions.GET("/:id", d.transactionHandler.Get)
			transactions.PUT("/:id/status", middleware.RequireStaff(), d.transactionHandler.UpdateStatus)
		}

		// Billing routes (protected)
		billing := v1.Group("/billing")
		billing.Use(d.authMiddleware)
		{
			billing.POST("/payment-methods", d.billingHandler.AddPaymentMethod)
			billing.GET("/payment-methods", d.billingHandler.ListPaymentMethods)
			billing.POST("/payment-methods/:id/default", d.billingHandler.SetDefaultPaymentMethod)
			billing.DELETE("/payment-methods/:id", d.billingHandler.RemovePaymentMethod)
			billing.POST("/subscriptions", d.billingHandler.CreateSubscription)
			billing.GET("/subscriptions", d.billingHandler.ListSubscriptions)
			billing.GET("/subscriptions/current", d.billingHandler.GetCurrentSubscription)
			billing.DELETE("/subscriptions/:id", d.billingHandler.CancelSubscription)
		}
	}
}
