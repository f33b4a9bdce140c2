package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(userID string) (*model.User, error) {
	return s.userRepository.ByID(userID)
}

// UpdateProfile changes the account name and/or email. Nil arguments are left as is.
func (s *UserService) UpdateProfile(userID string, name, email *string) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		err = validation.ValidateName(trimmed)
		if err != nil {
			return nil, invalid("name", "%s", capitalize(err.Error()))
		}
		user.Name = trimmed
	}

	if email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*email))
		err = validation.ValidateEmail(normalized)
		if err != nil {
			return nil, invalid("email", "%s", capitalize(err.Error()))
		}
		user.Email = normalized
	}

	err = s.userRepository.Update(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
