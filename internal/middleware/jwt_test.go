package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"faculty_id": claims.FacultyID})
	})
	r.GET("/faculty/:id/grid", handlers...)
	return r
}

func TestJWT_RejectsMissingHeader(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		FacultyID:        "fac-1",
		Role:             RoleFaculty,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := token.SignedString([]byte("other_secret"))
	require.NoError(t, err)

	r := newTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	signed := signToken(t, &Claims{
		FacultyID: "fac-1",
		Role:      RoleFaculty,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	r := newTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_AcceptsValidToken(t *testing.T) {
	signed := signToken(t, &Claims{FacultyID: "fac-1", Role: RoleFaculty})

	r := newTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fac-1")
}

func TestFacultySelfOrStaff_BlocksOtherFaculty(t *testing.T) {
	signed := signToken(t, &Claims{FacultyID: "fac-2", Role: RoleFaculty})

	r := newTestRouter(FacultySelfOrStaff("id"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFacultySelfOrStaff_AllowsSelfAndStaff(t *testing.T) {
	r := newTestRouter(FacultySelfOrStaff("id"))

	for _, claims := range []*Claims{
		{FacultyID: "fac-1", Role: RoleFaculty},
		{FacultyID: "", Role: RoleStaff},
		{FacultyID: "", Role: RoleAdmin},
	} {
		signed := signToken(t, claims)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/faculty/fac-1/grid", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "role %s", claims.Role)
	}
}

func TestRequireRole_Blocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/timetables", JWT(testSecret), RequireRole(RoleAdmin, RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	signed := signToken(t, &Claims{FacultyID: "fac-1", Role: RoleFaculty})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetables", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
