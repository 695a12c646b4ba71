package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pranavanil47/prowlerdash/internal/auth"
	"github.com/pranavanil47/prowlerdash/internal/middleware"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin-only user management surface.
type UserHandler struct {
	auth *auth.Authenticator
}

func NewUserHandler(a *auth.Authenticator) *UserHandler {
	return &UserHandler{auth: a}
}

// List returns all users, password hashes stripped.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.auth.ListUsers()
	if err != nil {
		util.InternalError(c, err)
		return
	}

	resp := make([]userResp, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResp(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type createUserReq struct {
	Username  string      `json:"username" binding:"required"`
	Email     string      `json:"email" binding:"required"`
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Password  string      `json:"password" binding:"required"`
	Role      models.Role `json:"role"`
}

// Create makes a new user; unlike self-registration the role may be set.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	user, err := h.auth.CreateUser(auth.RegisterProfile{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}, req.Role)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResp(user)})
}

type updateUserReq struct {
	Username  *string      `json:"username"`
	Email     *string      `json:"email"`
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Password  *string      `json:"password"`
	Role      *models.Role `json:"role"`
}

// Update applies a partial update to one user.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	user, err := h.auth.UpdateUser(id, auth.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResp(user)})
}

// Delete removes a user. Admins cannot delete themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.auth.DeleteUser(id, actor.ID); err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	switch {
	case writeInputError(c, err):
	case errors.Is(err, auth.ErrDuplicateUsername):
		util.Error(c, http.StatusBadRequest, "username already exists")
	case errors.Is(err, auth.ErrDuplicateEmail):
		util.Error(c, http.StatusBadRequest, "email already exists")
	case errors.Is(err, auth.ErrSelfDelete):
		util.Error(c, http.StatusBadRequest, "cannot delete your own account")
	case errors.Is(err, auth.ErrUserNotFound):
		util.Error(c, http.StatusNotFound, "user not found")
	default:
		util.InternalError(c, err)
	}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}
