package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getHealth reports liveness with the current server time.
func getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
