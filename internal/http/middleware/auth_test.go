package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contracts-billing/internal/model"
)

type stubParser struct {
	profileID int64
	err       error
}

func (s *stubParser) Parse(token string) (int64, error) {
	return s.profileID, s.err
}

type stubResolver struct {
	profiles map[int64]*model.Profile
}

func (s *stubResolver) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	return profile, nil
}

func newAuthRouter(parser TokenParser, resolver ProfileResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(parser, resolver))
	router.GET("/whoami", func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": principal.ID})
	})
	return router
}

func TestAuth(t *testing.T) {
	resolver := &stubResolver{profiles: map[int64]*model.Profile{
		7: {ID: 7, Role: model.ProfileRoleClient},
	}}

	tests := []struct {
		name       string
		parser     TokenParser
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "bearer token",
			parser:     &stubParser{profileID: 7},
			header:     map[string]string{"Authorization": "Bearer token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid bearer token",
			parser:     &stubParser{err: fmt.Errorf("bad signature")},
			header:     map[string]string{"Authorization": "Bearer token"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "legacy profile-id header",
			parser:     &stubParser{},
			header:     map[string]string{"Profile-Id": "7"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed profile-id header",
			parser:     &stubParser{},
			header:     map[string]string{"Profile-Id": "seven"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown profile",
			parser:     &stubParser{},
			header:     map[string]string{"Profile-Id": "99"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no credentials",
			parser:     &stubParser{},
			header:     nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.parser, resolver)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
