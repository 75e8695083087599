package repositories

import (
	"context"
	"database/sql"

	"projectpulse/internal/models"
)

type UserRepository interface {
	Store(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error

	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt sql.NullTime) error
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt sql.NullTime) (*models.User, error)

	GetTelegramSettings(ctx context.Context, userID int64) (chatID int64, allow bool, err error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role_id, avatar,
       telegram_chat_id, notify_telegram,
       refresh_token, refresh_expires_at, refresh_revoked,
       created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var refreshExp sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Avatar,
		&u.TelegramChatID, &u.NotifyTelegram,
		&u.RefreshToken, &refreshExp, &u.RefreshRevoked,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if refreshExp.Valid {
		u.RefreshExpiresAt = &refreshExp.Time
	}
	return u, nil
}

func (r *userRepository) Store(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role_id, avatar, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.RoleID, user.Avatar,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name=$1, email=$2, role_id=$3, avatar=$4,
			telegram_chat_id=$5, notify_telegram=$6, updated_at=NOW()
		WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.RoleID, user.Avatar,
		user.TelegramChatID, user.NotifyTelegram, user.ID,
	)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt sql.NullTime) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=false, updated_at=NOW() WHERE id=$3`,
		token, expiresAt, userID)
	return err
}

func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token))
}

func (r *userRepository) RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt sql.NullTime) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET refresh_token=$1, refresh_expires_at=$2, updated_at=NOW()
		WHERE refresh_token=$3 AND NOT refresh_revoked
		RETURNING `+userColumns, newToken, expiresAt, oldToken)
	return scanUser(row)
}

func (r *userRepository) GetTelegramSettings(ctx context.Context, userID int64) (int64, bool, error) {
	var chatID int64
	var allow bool
	err := r.db.QueryRowContext(ctx,
		`SELECT telegram_chat_id, notify_telegram FROM users WHERE id = $1`, userID,
	).Scan(&chatID, &allow)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	return chatID, allow, err
}
