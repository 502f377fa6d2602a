//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Login Tests ────────────────────────────────────────────────────────────

func TestLogin_RootCommander(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{
		"username": testutil.TestRootUsername, "password": testutil.TestRootPassword,
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Token          string `json:"token"`
		Username       string `json:"username"`
		Role           string `json:"role"`
		CanSeeAllUnits bool   `json:"can_see_all_units"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, testutil.TestRootUsername, result.Username)
	assert.Equal(t, "commander", result.Role)
	assert.True(t, result.CanSeeAllUnits)

	claims, err := env.JWTMgr.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.Scope().AllUnits)
}

func TestLogin_RootCommanderHasNoUsersRow(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.LoginRoot()

	var count int
	env.Pool.QueryRow(t.Context(),
		"SELECT COUNT(*) FROM users WHERE username = $1", testutil.TestRootUsername).Scan(&count)
	assert.Equal(t, 0, count)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{
		"username": testutil.TestRootUsername, "password": "wrong-password",
	}, "")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, resp, "UNAUTHORIZED")
}

func TestLogin_UnknownUser(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{
		"username": "ghost", "password": "irrelevant123",
	}, "")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestLogin_MissingFields(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{"username": "Nicat"}, "")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	env := testutil.NewTestEnv(t)

	for i := 0; i < 5; i++ {
		resp := env.POST("/auth/login", map[string]string{
			"username": "locked-user", "password": "wrong-password",
		}, "")
		resp.Body.Close()
	}

	resp := env.POST("/auth/login", map[string]string{
		"username": "locked-user", "password": "wrong-password",
	}, "")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusTooManyRequests)
	testutil.AssertErrorCode(t, resp, "ACCOUNT_LOCKED")
}

func TestLogin_SubCommander(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := env.LoginRoot()
	unitID := env.CreateUnit(token, "1-ci Batalyon", "sub.alpha", "securepass123")

	resp := env.POST("/auth/login", map[string]string{
		"username": "sub.alpha", "password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Token          string     `json:"token"`
		Role           string     `json:"role"`
		AssignedUnitID *uuid.UUID `json:"assigned_unit_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "sub-commander", result.Role)
	require.NotNil(t, result.AssignedUnitID)
	assert.Equal(t, unitID, *result.AssignedUnitID)

	claims, err := env.JWTMgr.ValidateToken(result.Token)
	require.NoError(t, err)
	scope := claims.Scope()
	assert.False(t, scope.AllUnits)
	assert.Equal(t, unitID, scope.UnitID)
}

// ─── Route Protection Tests ─────────────────────────────────────────────────

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := testutil.NewTestEnv(t)

	for _, path := range []string{"/units", "/targets", "/decoys"} {
		resp := env.GET(path)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "GET %s", path)
	}
}

func TestCommanderRoutes_RejectSubCommander(t *testing.T) {
	env := testutil.NewTestEnv(t)
	rootToken := env.LoginRoot()
	unitID := env.CreateUnit(rootToken, "2-ci Batalyon", "sub.beta", "securepass123")
	subToken := env.Login("sub.beta", "securepass123")

	resp := env.POST("/targets", map[string]interface{}{
		"name": "Obyekt-1", "assigned_unit_id": unitID,
		"latitude": 40.4, "longitude": 49.9,
	}, subToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp2 := env.POST("/operations/start", nil, subToken)
	resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestInvalidToken_Rejected(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.AuthGET("/units", "not-a-real-token")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	otherMgr := auth.NewJWTManager("a-different-secret-entirely", 12*time.Hour, 24*time.Hour)
	foreign, err := otherMgr.GenerateToken(&domain.UserProfile{
		ID:             uuid.New(),
		Username:       "intruder",
		Role:           domain.RoleCommander,
		CanSeeAllUnits: true,
	})
	require.NoError(t, err)

	resp2 := env.AuthGET("/units", foreign)
	resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}
