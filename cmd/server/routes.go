package main

import (
	"github.com/gin-gonic/gin"
	"mobile-verify.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	verificationHandler *handlers.VerificationHandler
	authMiddleware      gin.HandlerFunc
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
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Mobile verification routes (protected)
		mobile := v1.Group("/mobile")
		mobile.Use(d.authMiddleware)
		{
			mobile.POST("/verify", d.verificationHandler.Verify)
			mobile.POST("/resend", d.verificationHandler.Resend)
		}
	}
}
