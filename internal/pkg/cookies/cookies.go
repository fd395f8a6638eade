package cookies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authservice/internal/pkg/token"
)

const (
	AccessTokenName  = "accessToken"
	RefreshTokenName = "refreshToken"
)

// Manager writes the auth cookie pair. Both cookies are httpOnly and
// SameSite=Strict, so scripts never read them and cross-site requests
// never send them.
type Manager struct {
	domain string
	secure bool
}

func NewManager(domain string, secure bool) *Manager {
	return &Manager{domain: domain, secure: secure}
}

// SetAccessToken stores the access token with a max-age matching its
// signed validity window.
func (m *Manager) SetAccessToken(c *gin.Context, value string) {
	m.set(c, AccessTokenName, value, int(token.AccessTokenValidity.Seconds()))
}

// SetRefreshToken stores the refresh token for the full refresh window.
func (m *Manager) SetRefreshToken(c *gin.Context, value string) {
	m.set(c, RefreshTokenName, value, int(token.RefreshTokenValidity.Seconds()))
}

func (m *Manager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", m.domain, m.secure, true)
}
