package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"projectpulse/internal/models"
)

type ProjectRepository interface {
	Store(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Archive(ctx context.Context, id int64) error

	Members(ctx context.Context, projectID int64) ([]int64, error)
	AddMember(ctx context.Context, projectID, userID int64) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Store(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, description, manager_id, is_archived, created_at, updated_at)
		VALUES ($1,$2,$3,false,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		project.Name, project.Description, project.ManagerID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT id, name, description, manager_id, is_archived, created_at, updated_at
		FROM projects WHERE id = $1`
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.ManagerID, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	team, err := r.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	p.TeamIDs = team
	return p, nil
}

func (r *projectRepository) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	baseQuery := `SELECT DISTINCT p.id, p.name, p.description, p.manager_id, p.is_archived, p.created_at, p.updated_at
		FROM projects p`

	conditions := []string{"NOT p.is_archived"}
	args := []interface{}{}
	argID := 1

	if filter.MemberID != nil {
		baseQuery += ` LEFT JOIN project_members pm ON pm.project_id = p.id`
		conditions = append(conditions,
			fmt.Sprintf("(pm.user_id = $%d OR p.manager_id = $%d)", argID, argID))
		args = append(args, *filter.MemberID)
		argID++
	}
	if filter.ManagerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.manager_id = $%d", argID))
		args = append(args, *filter.ManagerID)
		argID++
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY p.id"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.ManagerID, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET name=$1, description=$2, manager_id=$3, updated_at=NOW()
		WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.ManagerID, project.ID)
	return err
}

func (r *projectRepository) Archive(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET is_archived=true, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *projectRepository) Members(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY user_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		projectID, userID)
	return err
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id=$1 AND user_id=$2`, projectID, userID)
	return err
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id=$1 AND user_id=$2)`,
		projectID, userID).Scan(&exists)
	return exists, err
}
