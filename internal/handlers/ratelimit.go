package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ravstays/rav-backend/internal/services"
)

// checkRateLimit runs the admission check and writes the 429 response when
// the caller is over the limit. Returns false when the request was denied.
func checkRateLimit(c *gin.Context, limiter *services.RateLimiter, preset services.RateLimitPreset) bool {
	decision := limiter.Allow(c.Request.Context(), c.GetUint("userId"), preset)
	if decision.Allowed {
		return true
	}

	c.Header("Retry-After", strconv.Itoa(decision.RetryAfterSeconds))
	c.JSON(429, gin.H{"error": "Too many requests. Please try again later."})
	return false
}
