package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"go.uber.org/zap"
)

type programStore interface {
	Create(ctx context.Context, input repository.CreateProgramInput) (*models.Program, error)
	GetByID(ctx context.Context, programID int64) (*models.Program, error)
	ListAll(ctx context.Context) ([]models.Program, error)
	ListByCoachID(ctx context.Context, coachID int64) ([]models.Program, error)
}

type activeAssignmentReader interface {
	GetActive(ctx context.Context, userID int64) (*models.Assignment, error)
}

type CreateProgramInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
}

type AssignmentService struct {
	db          *pgxpool.Pool
	programs    programStore
	assignments activeAssignmentReader
	users       userReader
	logger      *zap.Logger
}

func NewAssignmentService(
	db *pgxpool.Pool,
	programs *repository.ProgramRepository,
	assignments *repository.AssignmentRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		programs:    programs,
		assignments: assignments,
		users:       users,
		logger:      logger.Named("assignments"),
	}
}

// CreateProgram stores a program owned by the calling coach. Programs made by
// an admin have no owner and are available to every coach.
func (s *AssignmentService) CreateProgram(
	ctx context.Context,
	actorID int64,
	role string,
	input CreateProgramInput,
) (*models.Program, error) {
	var coachID *int64
	switch role {
	case models.RoleCoach:
		coachID = &actorID
	case models.RoleAdmin:
	default:
		return nil, ErrUnauthorized
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			description = &trimmed
		}
	}

	return s.programs.Create(ctx, repository.CreateProgramInput{
		CoachID:     coachID,
		Name:        input.Name,
		Description: description,
	})
}

func (s *AssignmentService) ListPrograms(ctx context.Context, actorID int64, role string) ([]models.Program, error) {
	switch role {
	case models.RoleCoach:
		return s.programs.ListByCoachID(ctx, actorID)
	case models.RoleAdmin:
		return s.programs.ListAll(ctx)
	default:
		return nil, ErrUnauthorized
	}
}

// Assign puts userID on programID. Any ACTIVE assignment the client already
// has is completed in the same transaction, so a client never holds two.
func (s *AssignmentService) Assign(
	ctx context.Context,
	actorID int64,
	role string,
	userID int64,
	programID int64,
) (*models.Assignment, error) {
	if role != models.RoleCoach && role != models.RoleAdmin {
		return nil, ErrUnauthorized
	}
	if userID <= 0 || programID <= 0 {
		return nil, validationError("user_id and program_id are required")
	}

	client, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if client.Role != models.RoleUser {
		return nil, validationError("only clients can be assigned to programs")
	}

	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, notFound(err, "program")
	}

	if role == models.RoleCoach {
		if client.CoachID == nil || *client.CoachID != actorID {
			return nil, ErrUnauthorized
		}
		if program.CoachID != nil && *program.CoachID != actorID {
			return nil, ErrUnauthorized
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssignmentRepo := repository.NewAssignmentRepository(tx)
	if err := txAssignmentRepo.CompleteActive(ctx, userID); err != nil {
		return nil, err
	}
	assignment, err := txAssignmentRepo.Create(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	assignment.ProgramName = program.Name
	s.logger.Info("program assigned",
		zap.Int64("user_id", userID),
		zap.Int64("program_id", programID),
		zap.Int64("actor_id", actorID),
	)
	return assignment, nil
}

func (s *AssignmentService) CurrentAssignment(
	ctx context.Context,
	actorID int64,
	role string,
	userID int64,
) (*models.Assignment, error) {
	switch role {
	case models.RoleAdmin:
	case models.RoleUser:
		if actorID != userID {
			return nil, ErrUnauthorized
		}
	case models.RoleCoach:
		client, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, notFound(err, "user")
		}
		if client.CoachID == nil || *client.CoachID != actorID {
			return nil, ErrUnauthorized
		}
	default:
		return nil, ErrUnauthorized
	}

	assignment, err := s.assignments.GetActive(ctx, userID)
	if err != nil {
		return nil, notFound(err, "assignment")
	}
	return assignment, nil
}
