package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const IngestKeyHeader = "X-Ingest-Key"

// IngestKey guards sensor ingestion with a shared key. An empty key disables the check.
func IngestKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(IngestKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ingest key"})
			return
		}
		c.Next()
	}
}
