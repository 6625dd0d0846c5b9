package dashboard

import (
	"context"
	"errors"
)

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var ErrInvalidPeriod = errors.New("period must be one of week, month, quarter, year")

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Revenue(ctx context.Context, period Period) (*RevenueReport, error)
	Coaches(ctx context.Context) (*CoachReport, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *service) Revenue(ctx context.Context, period Period) (*RevenueReport, error) {
	switch period {
	case "":
		period = PeriodMonth
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
	default:
		return nil, ErrInvalidPeriod
	}
	return s.repo.Revenue(ctx, period)
}

func (s *service) Coaches(ctx context.Context) (*CoachReport, error) {
	return s.repo.Coaches(ctx)
}
