package services

import (
	"context"

	"projectpulse/internal/models"
	"projectpulse/internal/repositories"
)

type ProjectService interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, id int64, updateData *models.Project) (*models.Project, error)
	Archive(ctx context.Context, id int64) error
	AddMember(ctx context.Context, projectID, userID int64) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

type projectService struct {
	repo repositories.ProjectRepository
}

func NewProjectService(repo repositories.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := s.repo.Store(ctx, project); err != nil {
		return nil, err
	}
	for _, uid := range project.TeamIDs {
		if err := s.repo.AddMember(ctx, project.ID, uid); err != nil {
			return nil, err
		}
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) GetAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *projectService) Update(ctx context.Context, id int64, updateData *models.Project) (*models.Project, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	existing.Name = updateData.Name
	existing.Description = updateData.Description
	existing.ManagerID = updateData.ManagerID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *projectService) Archive(ctx context.Context, id int64) error {
	return s.repo.Archive(ctx, id)
}

func (s *projectService) AddMember(ctx context.Context, projectID, userID int64) error {
	return s.repo.AddMember(ctx, projectID, userID)
}

func (s *projectService) RemoveMember(ctx context.Context, projectID, userID int64) error {
	return s.repo.RemoveMember(ctx, projectID, userID)
}
