package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/saeid-a/CoachFinance/pkg/utils"
	"go.uber.org/zap"
)

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetCoach(ctx context.Context, userID int64, coachID *int64) (*models.User, error)
}

type UserService struct {
	users  userStore
	logger *zap.Logger
}

func NewUserService(users *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger.Named("users")}
}

// SetCoach links a client to a coach, or unlinks them when coachID is nil.
// Only payments created afterwards follow the new link.
func (s *UserService) SetCoach(
	ctx context.Context,
	actorID int64,
	role string,
	userID int64,
	coachID *int64,
) (*models.User, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	client, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if client.Role != models.RoleUser {
		return nil, validationError("only clients can be linked to a coach")
	}

	if coachID != nil {
		coach, err := s.users.GetByID(ctx, *coachID)
		if err != nil {
			return nil, notFound(err, "coach")
		}
		if coach.Role != models.RoleCoach {
			return nil, validationError("coach_id must reference a coach")
		}
	}

	updated, err := s.users.SetCoach(ctx, userID, coachID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	s.logger.Info("coach link updated",
		zap.Int64("user_id", userID),
		zap.Int64p("coach_id", coachID),
		zap.Int64("actor_id", actorID),
	)
	return updated, nil
}

// EnsureAdmin creates the bootstrap admin account when no user owns email.
// An existing account is left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, email string, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("bootstrap admin created", zap.Int64("user_id", admin.ID), zap.String("email", email))
	return nil
}
