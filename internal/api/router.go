// Package api exposes the MCP server over HTTP for clients that speak
// JSON-RPC over POST instead of stdio.
package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gorgias-tools/gorgias-mcp/internal/mcp"
)

// maxRequestBody caps an incoming JSON-RPC message at 1 MiB.
const maxRequestBody = 1 << 20

// NewRouter builds the HTTP transport around an MCP server.
func NewRouter(server *mcp.Server, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/mcp", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":            mcp.ServerName,
			"version":         mcp.ServerVersion,
			"protocolVersion": mcp.ProtocolVersion,
			"transport":       "http",
		})
	})

	r.POST("/mcp", handleMessage(server, debug))

	return r
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func handleMessage(server *mcp.Server, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		if debug {
			log.Printf("mcp: http message received request_id=%s bytes=%d", c.GetString("request_id"), len(body))
		}

		out, err := server.HandleMessage(c.Request.Context(), body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if out == nil {
			// Notification, nothing to send back.
			c.Status(http.StatusAccepted)
			return
		}
		c.Data(http.StatusOK, "application/json", out)
	}
}
