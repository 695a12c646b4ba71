package handler

import (
	"errors"
	"net/http"

	"github.com/pranavanil47/prowlerdash/internal/auth"
	"github.com/pranavanil47/prowlerdash/internal/middleware"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, registration, logout and the current-user
// endpoint.
type AuthHandler struct {
	auth       *auth.Authenticator
	sessions   *auth.Sessions
	cookieName string
	secure     bool // Secure cookies only in production-flagged deployments
}

func NewAuthHandler(a *auth.Authenticator, s *auth.Sessions, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{auth: a, sessions: s, cookieName: cookieName, secure: secure}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and establishes a locally-authenticated
// session, delivered as an HTTP-only cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	user, err := h.auth.VerifyCredentials(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, "invalid username or password")
		} else {
			util.InternalError(c, err)
		}
		return
	}

	if err := h.establishSession(c, user.ID); err != nil {
		util.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResp(user)})
}

type registerReq struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Register creates a user with role "user" and logs them in immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	user, err := h.auth.Register(auth.RegisterProfile{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case writeInputError(c, err):
		case errors.Is(err, auth.ErrDuplicateUsername):
			util.Error(c, http.StatusBadRequest, "username already exists")
		case errors.Is(err, auth.ErrDuplicateEmail):
			util.Error(c, http.StatusBadRequest, "email already exists")
		default:
			util.InternalError(c, err)
		}
		return
	}

	if err := h.establishSession(c, user.ID); err != nil {
		util.InternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResp(user)})
}

// Logout invalidates the session if there is one. Idempotent: a request
// without a session still gets a 200 and a cleared cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
		if err := h.sessions.Invalidate(id); err != nil {
			util.InternalError(c, err)
			return
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current user, sans password hash.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResp(user)})
}

func (h *AuthHandler) establishSession(c *gin.Context, userID uint) error {
	sess, err := h.sessions.Create(userID, auth.ProviderLocal)
	if err != nil {
		return err
	}
	maxAge := int(h.sessions.TTL().Seconds())
	c.SetCookie(h.cookieName, sess.ID, maxAge, "/", "", h.secure, true)
	return nil
}
