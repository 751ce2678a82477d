package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/dto"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/utils"
)

// UserHandler serves account administration.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates an account (Admin only).
func (h *UserHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email       string `json:"email" binding:"required"`
		Username    string `json:"username" binding:"required,max=50"`
		Password    string `json:"password" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Role        string `json:"role"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), actor, services.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(actor, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params.Page, params.Limit, total))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUserFor(actor, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UsersByRole lists accounts by ?role=, where role=None lists unassigned accounts.
func (h *UserHandler) UsersByRole(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	role := c.Query("role")
	if role == "" {
		apierrors.BadRequest(c, "role is required")
		return
	}

	users, err := h.userService.UsersByRole(actor, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Email       *string `json:"email"`
		Username    *string `json:"username" binding:"omitempty,max=50"`
		PhoneNumber *string `json:"phone_number"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(actor, userID, services.UpdateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id", "user ID")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(actor, userID); err != nil {
		respondError(c, err)
		return
	}

	noContent(c)
}

// ChangeOwner hands the Admin role to another user.
func (h *UserHandler) ChangeOwner(c *gin.Context) {
	type ChangeOwnerRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req ChangeOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangeOwner(actor, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred"})
}
