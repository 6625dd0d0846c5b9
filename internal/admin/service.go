package admin

import (
	"context"
	"errors"
	"time"

	"coachadmin/internal/auth"
	"coachadmin/internal/logger"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrEmailExists        = errors.New("admin with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid admin role")
	ErrSelfDelete         = errors.New("admins cannot delete their own account")
)

type Service interface {
	Register(ctx context.Context, params CreateParams) (*Admin, error)
	Login(ctx context.Context, email, password string) (*Admin, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Get(ctx context.Context, id int) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Update(ctx context.Context, id int, patch UpdatePatch) (*Admin, error)
	Delete(ctx context.Context, id, requesterID int) error
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, params CreateParams) (*Admin, error) {
	role := params.Role
	if role == "" {
		role = auth.RoleAdmin
	}
	if !auth.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	taken, err := s.repo.EmailTaken(ctx, params.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Admin{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("admin account created", "admin_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Admin, string, string, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(admin.ID, admin.Email, admin.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		logger.Errorf("failed to update last_login for admin %d: %v", admin.ID, err)
	}
	admin.LastLogin = &now

	return admin, accessToken, refreshToken, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	accessToken, _, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	return accessToken, err
}

func (s *service) Get(ctx context.Context, id int) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int, patch UpdatePatch) (*Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != admin.Email {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
		admin.Email = *patch.Email
	}

	if patch.Role != nil {
		if !auth.ValidRole(*patch.Role) {
			return nil, ErrInvalidRole
		}
		admin.Role = *patch.Role
	}

	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}

	if patch.Name != nil {
		admin.Name = *patch.Name
	}

	return s.repo.Update(ctx, admin)
}

func (s *service) Delete(ctx context.Context, id, requesterID int) error {
	if id == requesterID {
		return ErrSelfDelete
	}
	return s.repo.Delete(ctx, id)
}
