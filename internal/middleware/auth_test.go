package middleware

import (
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "middleware-test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func tokenFor(t *testing.T, cfg *config.Config, id uint, role model.UserRole) string {
	t.Helper()
	user := &model.User{Role: role}
	user.ID = id
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func buildTestRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, token string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := buildTestRouter(cfg)

	if code := request(r, ""); code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", code)
	}
	if code := request(r, "not-a-token"); code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", code)
	}
	if code := request(r, tokenFor(t, cfg, 1, model.Student)); code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		allowed  []model.UserRole
		role     model.UserRole
		wantCode int
	}{
		{"student allowed", []model.UserRole{model.Student}, model.Student, http.StatusOK},
		{"teacher blocked from student route", []model.UserRole{model.Student}, model.Teacher, http.StatusForbidden},
		{"student blocked from teacher route", []model.UserRole{model.Teacher}, model.Student, http.StatusForbidden},
		{"admin passes student route", []model.UserRole{model.Student}, model.Admin, http.StatusOK},
		{"admin passes teacher route", []model.UserRole{model.Teacher}, model.Admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestRouter(cfg, tt.allowed...)
			if code := request(r, tokenFor(t, cfg, 1, tt.role)); code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
		})
	}
}
