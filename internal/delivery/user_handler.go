package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/middleware"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/verify", h.Verify)
		users.POST("/login", h.Login)

		users.GET("", auth, middleware.RequireRoles(h.log, domain.RoleAdmin), h.ListUsers)
		users.DELETE("/delete-user", auth, middleware.RequireRoles(h.log, domain.RoleAdmin), h.DeleteUser)
		users.GET("/me", auth, h.Me)
		users.PATCH("/update-me", auth, h.UpdateMe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var requestBody struct {
		FullName    string `json:"full_name" binding:"required"`
		Email       string `json:"email" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(c.Request.Context(),
		requestBody.FullName,
		requestBody.Email,
		requestBody.PhoneNumber,
		requestBody.Password,
	)
	if err != nil {
		h.log.Errorf("Failed to register user %s: %v", requestBody.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to register user: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "User created successfully, verification code sent", gin.H{"id": user.ID})
}

func (h *UserHandler) Verify(c *gin.Context) {
	var requestBody struct {
		Email            string `json:"email" binding:"required"`
		VerificationCode string `json:"verification_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.useCase.VerifyCode(requestBody.Email, requestBody.VerificationCode); err != nil {
		h.log.Warnf("Failed to verify user %s: %v", requestBody.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to verify email: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Email verified successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var requestBody struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, user, err := h.useCase.Login(requestBody.Email, requestBody.Password)
	if err != nil {
		h.log.Warnf("Login failed for %s: %v", requestBody.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Login failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	profile, err := h.useCase.GetProfile(user.ID)
	if err != nil {
		h.log.Warnf("Failed to get profile for user %d: %v", user.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve profile: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "User retrieved successfully", profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var update domain.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.UpdateProfile(user.ID, update)
	if err != nil {
		h.log.Warnf("Failed to update profile for user %d: %v", user.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update profile: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "User updated successfully", updated)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	idStr := c.Query("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.useCase.DeleteUser(id); err != nil {
		h.log.Warnf("Failed to delete user %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete user: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, offset := paginationParams(c)
	users, err := h.useCase.ListUsers(limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
