package repository

import (
	"context"

	"github.com/saeid-a/CoachFinance/internal/models"
)

type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CompleteActive closes the user's ACTIVE assignment, if any.
func (r *AssignmentRepository) CompleteActive(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE assignments
		SET status = 'COMPLETED'
		WHERE user_id = $1 AND status = 'ACTIVE'
	`, userID)
	return err
}

func (r *AssignmentRepository) Create(ctx context.Context, userID int64, programID int64) (*models.Assignment, error) {
	query := `
		INSERT INTO assignments (user_id, program_id, status, start_date)
		VALUES ($1, $2, 'ACTIVE', NOW())
		RETURNING id, user_id, program_id, status, start_date
	`

	var assignment models.Assignment
	err := r.db.QueryRow(ctx, query, userID, programID).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.ProgramID,
		&assignment.Status,
		&assignment.StartDate,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) GetActive(ctx context.Context, userID int64) (*models.Assignment, error) {
	query := `
		SELECT a.id, a.user_id, a.program_id, p.name, a.status, a.start_date
		FROM assignments a
		JOIN programs p ON p.id = a.program_id
		WHERE a.user_id = $1 AND a.status = 'ACTIVE'
	`

	var assignment models.Assignment
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.ProgramID,
		&assignment.ProgramName,
		&assignment.Status,
		&assignment.StartDate,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ActiveProgramNames maps each client with an ACTIVE assignment to the name
// of that program.
func (r *AssignmentRepository) ActiveProgramNames(ctx context.Context) (map[int64]string, error) {
	query := `
		SELECT a.user_id, p.name
		FROM assignments a
		JOIN programs p ON p.id = a.program_id
		WHERE a.status = 'ACTIVE'
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var userID int64
		var name string
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, err
		}
		names[userID] = name
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}
