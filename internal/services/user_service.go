package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"projectpulse/internal/models"
	"projectpulse/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string, roleID int) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error

	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error)
}

type userService struct {
	repo  repositories.UserRepository
	email EmailService
}

func NewUserService(repo repositories.UserRepository, email EmailService) UserService {
	return &userService{repo: repo, email: email}
}

func (s *userService) Register(ctx context.Context, name, email, password string, roleID int) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
	}
	if err := s.repo.Store(ctx, user); err != nil {
		return nil, err
	}
	// welcome mail is best-effort, registration never fails on SMTP
	if s.email != nil {
		if err := s.email.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("[user][register] welcome email failed for %q: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *userService) Update(ctx context.Context, user *models.User) error {
	return s.repo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(ctx, userID, token, sql.NullTime{Time: expiresAt, Valid: true})
}

func (s *userService) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.repo.FindByRefreshToken(ctx, token)
}

func (s *userService) RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(ctx, oldToken, newToken, sql.NullTime{Time: expiresAt, Valid: true})
}
