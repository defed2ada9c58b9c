package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {"success": true} merged with the given fields.
func JSONSuccess(c *gin.Context, code int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(code, body)
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
