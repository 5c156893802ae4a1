package usecase

import (
	"context"
	"log"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

type RegisterUserInput struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Role     string
	Location entity.UserLocation
}

type UpdateProfileInput struct {
	Name          *string
	Phone         *string
	Location      *entity.UserLocation
	ProfilePicURL *string
}

// RegisterUser provisions a profile for an externally authenticated identity.
// The ID comes from the auth token subject, not from the client body.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*entity.User, error) {
	if input.ID == "" {
		return nil, errors.Validation("User ID is required", nil)
	}

	user := &entity.User{
		ID:       input.ID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     input.Role,
		Location: input.Location,
		Ratings: entity.RatingSummary{
			Breakdown: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		},
		IsActive: true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		log.Printf("RegisterUser Error: Failed to create user %s: %v", input.ID, err)
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.ProfilePicURL != nil {
		user.ProfilePicURL = *input.ProfilePicURL
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		log.Printf("UpdateProfile Error: Failed to update user %s: %v", userID, err)
		return nil, err
	}

	return user, nil
}
