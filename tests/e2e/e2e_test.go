package e2e

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"authservice/internal/database"
	"authservice/internal/domain"
	"authservice/internal/middleware"
	"authservice/internal/modules/auth"
	"authservice/internal/pkg/cookies"
	"authservice/internal/pkg/token"
	"authservice/internal/repository"
)

const testRefreshSecret = "e2e-refresh-secret"

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *token.Service
}

type errorBody struct {
	Errors []struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		Path     string `json:"path"`
		Location string `json:"location"`
	} `json:"errors"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()

	// In-memory SQLite keeps every test self-contained.
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// one connection keeps the in-memory database alive across queries
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db), "Failed to migrate auth tables")

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	tokens, err := token.New(token.Config{
		PrivateKey:    keyPEM,
		RefreshSecret: testRefreshSecret,
		Issuer:        "auth-service",
	})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	authService := auth.NewService(userRepo, refreshRepo, tokens)
	authHandler := auth.NewHandler(authService, cookies.NewManager("localhost", false), zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))

	authHandler.RegisterPublicRoutes(&r.RouterGroup)

	protected := r.Group("/")
	protected.Use(middleware.Authenticate(tokens))
	authHandler.RegisterProtectedRoutes(protected)

	return &E2ETestSuite{router: r, db: db, tokens: tokens}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body any, reqCookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range reqCookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func registerBody() map[string]string {
	return map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "johndoe@example.com",
		"password":  "password123",
	}
}

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestRegister(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, ok := resp["id"].(float64)
	require.True(t, ok, "id missing from response")
	assert.Greater(t, id, float64(0))

	// exactly one row, role customer, bcrypt hash instead of plaintext
	var stored struct {
		Password string
		Role     string
	}
	var count int64
	require.NoError(t, s.db.Table("users").Where("email = ?", "johndoe@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, s.db.Table("users").Where("email = ?", "johndoe@example.com").Select("password", "role").Scan(&stored).Error)
	assert.Equal(t, string(domain.RoleCustomer), stored.Role)
	assert.NotEqual(t, "password123", stored.Password)
	assert.Len(t, stored.Password, 60)
	assert.Contains(t, stored.Password, "$2a$10$")
}

func TestRegisterSetsTokenCookies(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	access := cookieByName(t, w, cookies.AccessTokenName)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, 3600, access.MaxAge)

	refresh := cookieByName(t, w, cookies.RefreshTokenName)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
	assert.Equal(t, 365*24*3600, refresh.MaxAge)

	// the access token verifies against the service's public key
	claims, err := s.tokens.VerifyAccessToken(access.Value)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCustomer), claims.Role)

	// the refresh token's jti points at the persisted row
	var refreshClaims token.Claims
	parsed, err := jwtlib.ParseWithClaims(refresh.Value, &refreshClaims, func(tok *jwtlib.Token) (any, error) {
		return []byte(testRefreshSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	var row domain.RefreshToken
	require.NoError(t, s.db.First(&row).Error)
	assert.Equal(t, strconv.FormatInt(row.ID, 10), refreshClaims.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := setupTestSuite(t)

	first := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, first.Code)

	second := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	assert.Equal(t, http.StatusBadRequest, second.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.NotEmpty(t, body.Errors)

	var count int64
	require.NoError(t, s.db.Table("users").Where("email = ?", "johndoe@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterMissingEmail(t *testing.T) {
	s := setupTestSuite(t)

	req := registerBody()
	delete(req, "email")

	w := s.makeRequest(t, http.MethodPost, "/auth/register", req, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Errors)

	found := false
	for _, e := range body.Errors {
		if e.Path == "email" {
			found = true
			assert.Contains(t, e.Message, "required")
			assert.Equal(t, "body", e.Location)
		}
	}
	assert.True(t, found, "no error entry for path email: %s", w.Body.String())
}

func TestLogin(t *testing.T) {
	s := setupTestSuite(t)

	reg := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, reg.Code)

	w := s.makeRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "johndoe@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookieByName(t, w, cookies.AccessTokenName)
	cookieByName(t, w, cookies.RefreshTokenName)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "id")
}

func TestLoginBadCredentialsAreIndistinguishable(t *testing.T) {
	s := setupTestSuite(t)

	reg := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, reg.Code)

	wrongPass := s.makeRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "johndoe@example.com",
		"password": "wrong-password",
	}, nil)
	unknownEmail := s.makeRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknownEmail.Body.String())
}

func TestSelf(t *testing.T) {
	s := setupTestSuite(t)

	reg := s.makeRequest(t, http.MethodPost, "/auth/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, reg.Code)
	access := cookieByName(t, reg, cookies.AccessTokenName)

	var regResp map[string]any
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &regResp))

	w := s.makeRequest(t, http.MethodGet, "/auth/self", nil, []*http.Cookie{
		{Name: cookies.AccessTokenName, Value: access.Value},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var self map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &self))
	assert.Equal(t, regResp["id"], self["id"])
	assert.Equal(t, "johndoe@example.com", self["email"])
	assert.NotContains(t, self, "password")
}

func TestSelfRequiresValidToken(t *testing.T) {
	s := setupTestSuite(t)

	noCookie := s.makeRequest(t, http.MethodGet, "/auth/self", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, noCookie.Code)

	garbage := s.makeRequest(t, http.MethodGet, "/auth/self", nil, []*http.Cookie{
		{Name: cookies.AccessTokenName, Value: "not-a-token"},
	})
	assert.Equal(t, http.StatusUnauthorized, garbage.Code)
}
