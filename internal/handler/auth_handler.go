package handler

import (
	"net/http"
	"strconv"

	"mindhaven/internal/model"
	"mindhaven/internal/service"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler 注册、登录、找回密码与管理员接口
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	PhoneNumber  string `json:"phone_number"`
	ProfileImage string `json:"profile_image"`
	Specialty    string `json:"specialty"`
	ContactEmail string `json:"contact_email"`
	Bio          string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		ProfileImage: req.ProfileImage,
		Specialty:    req.Specialty,
		ContactEmail: req.ContactEmail,
		Bio:          req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Registration successful", "user": user})
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":      "Login successful",
		"access_token": result.AccessToken,
		"user":         result.User,
		"therapist":    result.Therapist,
	})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}

// ForgotPassword POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.service.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if token == "" {
		response.Message(c, http.StatusOK, "Reset instructions sent to your email")
		return
	}
	response.OK(c, gin.H{"message": "Reset token generated successfully", "reset_token": token})
}

// ResetPassword POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password reset successful")
}

// Dashboard GET /auth/admin/dashboard
func (h *AuthHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stats)
}

// ListUsers GET /auth/admin/users?page=&per_page=
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	users, total, err := h.service.ListUsers(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "total": total})
}

// Promote PUT /auth/admin/users/:user_id/promote
func (h *AuthHandler) Promote(c *gin.Context) {
	h.setRole(c, model.RoleAdmin, "User promoted to admin")
}

// Demote PUT /auth/admin/users/:user_id/demote
func (h *AuthHandler) Demote(c *gin.Context) {
	h.setRole(c, model.RoleUser, "User demoted to user")
}

func (h *AuthHandler) setRole(c *gin.Context, role, message string) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.service.SetRole(c.Request.Context(), userID, role); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"message": message, "user_id": userID})
}

// ListTherapists GET /auth/admin/therapists
func (h *AuthHandler) ListTherapists(c *gin.Context) {
	list, err := h.service.ListTherapists(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"therapists": list})
}

// VerifyTherapist PUT /auth/admin/therapists/:therapist_id/verify
func (h *AuthHandler) VerifyTherapist(c *gin.Context) {
	id, ok := pathID(c, "therapist_id")
	if !ok {
		return
	}
	if err := h.service.VerifyTherapist(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Therapist verified", "therapist_id": id})
}
