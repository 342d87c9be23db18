package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/paulorsp2021/usuario/internal/application"
	"github.com/paulorsp2021/usuario/pkg/response"
	"github.com/paulorsp2021/usuario/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name      string               `json:"name" binding:"required"`
	Email     string               `json:"email" binding:"required,email"`
	Password  string               `json:"password" binding:"required,pwd"`
	Addresses []userapp.AddressDTO `json:"addresses" binding:"omitempty,dive"`
	Phones    []userapp.PhoneDTO   `json:"phones" binding:"omitempty,dive"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// statusFor maps service failures to transport statuses:
// conflict, not found, unauthorized, else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, userapp.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, userapp.ErrUserNotFound),
		errors.Is(err, userapp.ErrAddressNotFound),
		errors.Is(err, userapp.ErrPhoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, userapp.ErrInvalidToken),
		errors.Is(err, userapp.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dto := userapp.UserDTO{
		Name:      &req.Name,
		Email:     &req.Email,
		Password:  &req.Password,
		Addresses: req.Addresses,
		Phones:    req.Phones,
	}
	out, err := h.Svc.Register(c.Request.Context(), dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, out, "user registered")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "expires_at": exp}, "login successful")
}

func (h *UserHandler) FindByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error[any](c, http.StatusBadRequest, "email query parameter is required", nil)
		return
	}
	out, err := h.Svc.FindByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, out, "user found")
}

func (h *UserHandler) DeleteByEmail(c *gin.Context) {
	email := c.Param("email")
	if err := h.Svc.DeleteByEmail(c.Request.Context(), email); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("email", email).Error("delete user failed")
		}
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var dto userapp.UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetHeader("Authorization"), dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, out, "profile updated")
}

func (h *UserHandler) CreateAddress(c *gin.Context) {
	var dto userapp.AddressDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.CreateAddress(c.Request.Context(), c.GetHeader("Authorization"), dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, out, "address created")
}

func (h *UserHandler) CreatePhone(c *gin.Context) {
	var dto userapp.PhoneDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.CreatePhone(c.Request.Context(), c.GetHeader("Authorization"), dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, out, "phone created")
}

func (h *UserHandler) UpdateAddress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid address id", nil)
		return
	}
	var dto userapp.AddressDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.UpdateAddress(c.Request.Context(), id, dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, out, "address updated")
}

func (h *UserHandler) UpdatePhone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid phone id", nil)
		return
	}
	var dto userapp.PhoneDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.UpdatePhone(c.Request.Context(), id, dto)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, out, "phone updated")
}
