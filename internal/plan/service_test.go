package plan

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, plan *Plan) (*Plan, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]Plan, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Plan), args.Int(1), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, plan *Plan) (*Plan, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountActiveForPlan(ctx context.Context, planID int) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

func TestCreateDefaultsToActive(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCounter))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Plan) bool {
		return p.IsActive
	})).Return(&Plan{ID: 1, Name: "Monthly", IsActive: true}, nil)

	plan, err := svc.Create(context.Background(), CreateParams{
		Name:         "Monthly",
		Price:        decimal.NewFromInt(99),
		DurationDays: 30,
	})

	require.NoError(t, err)
	assert.True(t, plan.IsActive)
	repo.AssertExpectations(t)
}

func TestCreateValidation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCounter))

	_, err := svc.Create(context.Background(), CreateParams{
		Name:         "Monthly",
		Price:        decimal.NewFromInt(99),
		DurationDays: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = svc.Create(context.Background(), CreateParams{
		Name:         "Monthly",
		Price:        decimal.NewFromInt(-1),
		DurationDays: 30,
	})
	assert.ErrorIs(t, err, ErrNegativePrice)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateHonorsExplicitZeroValues(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCounter))

	existing := &Plan{
		ID: 1, Name: "Monthly",
		Price:        decimal.NewFromInt(99),
		DurationDays: 30,
		IsActive:     true,
	}
	repo.On("GetByID", mock.Anything, 1).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Plan) bool {
		return p.Price.IsZero() && !p.IsActive && p.DurationDays == 30
	})).Return(existing, nil)

	zero := decimal.Zero
	inactive := false
	_, err := svc.Update(context.Background(), 1, UpdatePatch{
		Price:    &zero,
		IsActive: &inactive,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateRejectsBadPatchValues(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCounter))

	existing := &Plan{ID: 1, Price: decimal.NewFromInt(99), DurationDays: 30}
	repo.On("GetByID", mock.Anything, 1).Return(existing, nil)

	negative := decimal.NewFromInt(-5)
	_, err := svc.Update(context.Background(), 1, UpdatePatch{Price: &negative})
	assert.ErrorIs(t, err, ErrNegativePrice)

	zeroDays := 0
	_, err = svc.Update(context.Background(), 1, UpdatePatch{DurationDays: &zeroDays})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteGuardedByActiveSubscriptions(t *testing.T) {
	repo := new(MockRepository)
	counter := new(MockCounter)
	svc := NewService(repo, counter)

	repo.On("GetByID", mock.Anything, 1).Return(&Plan{ID: 1}, nil)
	counter.On("CountActiveForPlan", mock.Anything, 1).Return(2, nil)

	err := svc.Delete(context.Background(), 1)

	assert.ErrorIs(t, err, ErrPlanInUse)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteSucceedsWithoutActiveSubscriptions(t *testing.T) {
	repo := new(MockRepository)
	counter := new(MockCounter)
	svc := NewService(repo, counter)

	repo.On("GetByID", mock.Anything, 1).Return(&Plan{ID: 1}, nil)
	counter.On("CountActiveForPlan", mock.Anything, 1).Return(0, nil)
	repo.On("Delete", mock.Anything, 1).Return(nil)

	err := svc.Delete(context.Background(), 1)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteNotFound(t *testing.T) {
	repo := new(MockRepository)
	counter := new(MockCounter)
	svc := NewService(repo, counter)

	repo.On("GetByID", mock.Anything, 404).Return(nil, ErrNotFound)

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	counter.AssertNotCalled(t, "CountActiveForPlan", mock.Anything, mock.Anything)
}

func TestListComputesPages(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockCounter))

	repo.On("List", mock.Anything, mock.MatchedBy(func(f ListFilter) bool {
		return f.Page == 1 && f.Limit == 10
	})).Return([]Plan{}, 21, nil)

	resp, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pages)
}
