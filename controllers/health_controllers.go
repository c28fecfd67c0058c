package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness probe. It never touches the database.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sistema Billar API Running"})
}
