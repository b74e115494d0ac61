package main

import (
	"errors"
	"net/http"

	"kairos-voice/internal/calls"
	"kairos-voice/internal/telephony"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	Webhooks  telephony.WebhookHandler
	Initiator *calls.Initiator
	AuthMW    gin.HandlerFunc
	AudioDir  string
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	// public
	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<h1>KAIROS Voice</h1><p>Call orchestration engine is running.</p>")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Synthesized greeting and reply audio, fetched by the provider mid-call.
	r.Static("/audio", deps.AudioDir)

	// Provider webhooks (public).
	// NOTE: These endpoints should be protected by Twilio signature validation in production.
	r.POST("/twiml/start", deps.Webhooks.HandleStart)
	r.POST("/twiml/turn", deps.Webhooks.HandleTurn)

	// protected operator API
	v1 := r.Group("/v1")
	v1.Use(deps.AuthMW)
	{
		v1.POST("/calls", func(c *gin.Context) {
			var req calls.InitiateRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "phone, customer_name and business_id are required"})
				return
			}

			res, err := deps.Initiator.Initiate(c.Request.Context(), req)
			if err != nil {
				status := http.StatusBadGateway
				switch {
				case errors.Is(err, calls.ErrInvalidPhone):
					status = http.StatusBadRequest
				case errors.Is(err, calls.ErrBusinessNotFound):
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"success": false, "error": err.Error()})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"business":   res.BusinessName,
				"session_id": res.SessionID,
				"call_sid":   res.CallSID,
			})
		})
	}
}
