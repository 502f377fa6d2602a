package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geoguard/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func requestWithRole(role domain.Role) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/targets", nil)
	ctx := context.WithValue(r.Context(), claimsKey, &Claims{Role: role})
	return r.WithContext(ctx)
}

func TestRequireCommander(t *testing.T) {
	handler := RequireCommander()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("commander allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithRole(domain.RoleCommander))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("sub-commander forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithRole(domain.RoleSubCommander))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no auth context", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/targets", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWriteRoles_CommanderOnly(t *testing.T) {
	assert.Equal(t, []domain.Role{domain.RoleCommander}, WriteRoles())
}
