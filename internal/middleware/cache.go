package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControl lets browsers and proxies reuse a response for maxAgeSeconds. Only for
// pages that read neither the bank nor the session.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return cachePolicy("public, max-age=" + strconv.Itoa(maxAgeSeconds))
}

// NoStore marks responses that reflect the live question bank or a session. Handlers
// may still override the header before writing.
func NoStore() gin.HandlerFunc {
	return cachePolicy("no-store")
}

func cachePolicy(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
