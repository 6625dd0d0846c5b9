package coach

import (
	"context"
	"errors"

	"coachadmin/internal/auth"
)

var (
	ErrNotFound               = errors.New("coach not found")
	ErrEmailExists            = errors.New("coach with this email already exists")
	ErrInvalidStatus          = errors.New("invalid coach status")
	ErrHasActiveSubscriptions = errors.New("coach has active subscriptions")
)

// SubscriptionCounter reports how many active subscriptions a coach holds.
type SubscriptionCounter interface {
	CountActiveForCoach(ctx context.Context, coachID int) (int, error)
}

type Service interface {
	Create(ctx context.Context, params CreateParams) (*Coach, error)
	Get(ctx context.Context, id int) (*Coach, error)
	List(ctx context.Context, f ListFilter) (*ListResponse, error)
	Update(ctx context.Context, id int, patch UpdatePatch) (*Coach, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo          Repository
	subscriptions SubscriptionCounter
}

func NewService(repo Repository, subscriptions SubscriptionCounter) Service {
	return &service{repo: repo, subscriptions: subscriptions}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Coach, error) {
	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
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

	return s.repo.Create(ctx, &Coach{
		Name:            params.Name,
		Email:           params.Email,
		PasswordHash:    hash,
		Phone:           params.Phone,
		ProfilePhotoURL: params.ProfilePhotoURL,
		Status:          status,
		Bio:             params.Bio,
		Specialization:  params.Specialization,
	})
}

func (s *service) Get(ctx context.Context, id int) (*Coach, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	coaches, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}

	return &ListResponse{
		Total:   total,
		Page:    f.Page,
		Pages:   pages,
		Coaches: coaches,
	}, nil
}

func (s *service) Update(ctx context.Context, id int, patch UpdatePatch) (*Coach, error) {
	coach, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != coach.Email {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
		coach.Email = *patch.Email
	}

	if patch.Status != nil {
		if !ValidStatus(*patch.Status) {
			return nil, ErrInvalidStatus
		}
		coach.Status = *patch.Status
	}

	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		coach.PasswordHash = hash
	}

	if patch.Name != nil {
		coach.Name = *patch.Name
	}
	if patch.Phone != nil {
		coach.Phone = patch.Phone
	}
	if patch.ProfilePhotoURL != nil {
		coach.ProfilePhotoURL = patch.ProfilePhotoURL
	}
	if patch.Bio != nil {
		coach.Bio = patch.Bio
	}
	if patch.Specialization != nil {
		coach.Specialization = patch.Specialization
	}

	return s.repo.Update(ctx, coach)
}

// Delete refuses to remove a coach with active subscriptions. Cancel or
// expire them first.
func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.subscriptions.CountActiveForCoach(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasActiveSubscriptions
	}

	return s.repo.Delete(ctx, id)
}
