package handler

import (
	"agrilink/internal/domain/entity"
	"agrilink/internal/usecase"
	"agrilink/pkg/response"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type locationRequest struct {
	State    string `json:"state" validate:"required"`
	District string `json:"district" validate:"required"`
	Village  string `json:"village"`
	Pincode  string `json:"pincode" validate:"required"`
}

type registerUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"required"`
	Role     string          `json:"role" validate:"required,oneof=farmer buyer retailer expert"`
	Location locationRequest `json:"location" validate:"required"`
}

type updateProfileRequest struct {
	Name          *string          `json:"name"`
	Phone         *string          `json:"phone"`
	Location      *locationRequest `json:"location"`
	ProfilePicURL *string          `json:"profile_pic_url"`
}

// Register provisions a profile for the authenticated identity. The user ID
// is the token subject; the admin role cannot be self-assigned.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	user, err := h.userUseCase.RegisterUser(c.Request().Context(), usecase.RegisterUserInput{
		ID:    uid,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
		Location: entity.UserLocation{
			State:    req.Location.State,
			District: req.Location.District,
			Village:  req.Location.Village,
			Pincode:  req.Location.Pincode,
		},
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *UserHandler) GetMe(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	input := usecase.UpdateProfileInput{
		Name:          req.Name,
		Phone:         req.Phone,
		ProfilePicURL: req.ProfilePicURL,
	}
	if req.Location != nil {
		input.Location = &entity.UserLocation{
			State:    req.Location.State,
			District: req.Location.District,
			Village:  req.Location.Village,
			Pincode:  req.Location.Pincode,
		}
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
