package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    *services.AuthService
	projectService *services.ProjectService
	frontendURL    string
	secureCookies  bool
	sessionMaxAge  int
}

func NewAuthHandler(authService *services.AuthService, projectService *services.ProjectService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		projectService: projectService,
		frontendURL:    strings.TrimRight(cfg.App.FrontendURL, "/"),
		secureCookies:  cfg.IsProduction(),
		sessionMaxAge:  cfg.Cookie.MaxAge,
	}
}

// setCookie writes an HttpOnly cookie. Production deployments serve the
// frontend from another site, so the cookie must be Secure and SameSite=None.
func (h *AuthHandler) setCookie(c *gin.Context, name, value, path string, maxAge int) {
	if h.secureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, maxAge, path, "", h.secureCookies, true)
}

// Login redirects to the GitHub consent page
// GET /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	redirectURL, stateCookie, err := h.authService.BeginLogin()
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, services.StateCookieName, stateCookie, "/api/auth", int(h.authService.StateTTL().Seconds()))
	c.Redirect(http.StatusFound, redirectURL)
}

// Callback completes the OAuth flow and sets the session cookie
// GET /api/auth/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	stateCookie, _ := c.Cookie(services.StateCookieName)
	h.setCookie(c, services.StateCookieName, "", "/api/auth", -1)

	result, err := h.authService.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), stateCookie)
	if err != nil {
		logger.Warn().Err(err).Str("ip", c.ClientIP()).Msg("github login failed")
		c.Redirect(http.StatusFound, h.frontendURL+"/login?success=false")
		return
	}

	maxAge := int(time.Until(result.ExpireAt).Seconds())
	if h.sessionMaxAge > 0 && h.sessionMaxAge < maxAge {
		maxAge = h.sessionMaxAge
	}
	h.setCookie(c, middleware.AccessTokenCookie, result.Token, "/", maxAge)
	c.Redirect(http.StatusFound, h.frontendURL+"/")
}

// Verify reports whether the caller holds a valid session
// POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	response.Success(c, h.authService.Verify(c.Request.Context(), middleware.TokenFromRequest(c)))
}

// Logout clears the session cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", "/", -1)
	response.Message(c, "logged out successfully")
}

type profileResponse struct {
	User     *models.User         `json:"user"`
	Projects []roster.ProjectView `json:"projects"`
}

// Profile returns the current user and the projects they belong to
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.GetUser(c)
	projects, err := h.projectService.ProjectsOfUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]roster.ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, roster.Render(&projects[i], roster.ViewStandard, false))
	}
	response.Success(c, profileResponse{User: user, Projects: views})
}
