package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/events"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
	"github.com/susucircle/susu-backend/internal/utils"
)

// UserCommandService registers users.
type UserCommandService struct {
	userRepo  *repository.UserRepository
	publisher *events.Publisher
}

func NewUserCommandService(userRepo *repository.UserRepository, publisher *events.Publisher) *UserCommandService {
	return &UserCommandService{userRepo: userRepo, publisher: publisher}
}

func (s *UserCommandService) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		PhoneNumber:  cmd.PhoneNumber,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(context.Background(), events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return user, nil
}
