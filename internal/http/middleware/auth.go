package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contracts-billing/internal/model"
)

const principalKey = "principal"

type TokenParser interface {
	Parse(token string) (int64, error)
}

type ProfileResolver interface {
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
}

// Auth resolves the acting profile from a Bearer access token, or from the
// legacy Profile-Id header, and attaches it to the request context. The
// caller is guaranteed to correspond to an existing profile downstream.
func Auth(parser TokenParser, profiles ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := resolveProfileID(c, parser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid credentials"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), profileID)
		if err != nil || profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
			return
		}

		c.Set(principalKey, profile)
		c.Next()
	}
}

func resolveProfileID(c *gin.Context, parser TokenParser) (int64, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		profileID, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return 0, false
		}
		return profileID, true
	}

	raw := c.GetHeader("Profile-Id")
	if raw == "" {
		return 0, false
	}
	profileID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return profileID, true
}

func MustPrincipal(c *gin.Context) (*model.Profile, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*model.Profile)
	return profile, ok
}
