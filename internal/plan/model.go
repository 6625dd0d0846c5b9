package plan

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Plan is a subscription offering: a price for a fixed number of days.
type Plan struct {
	ID           int             `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	DurationDays int             `db:"duration_days" json:"duration_days"`
	Features     types.JSONText  `db:"features" json:"features"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	Name         string
	Description  *string
	Price        decimal.Decimal
	DurationDays int
	Features     types.JSONText
	IsActive     *bool
}

// UpdatePatch uses pointers so explicit zero values (price 0, is_active
// false) are distinguishable from fields left out of the request.
type UpdatePatch struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	DurationDays *int
	Features     *types.JSONText
	IsActive     *bool
}

type ListFilter struct {
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

type ListResponse struct {
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	Plans []Plan `json:"plans"`
}

// CreateRequest is the POST /api/plans body.
type CreateRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days" binding:"required"`
	Features     types.JSONText  `json:"features"`
	IsActive     *bool           `json:"is_active"`
}

// UpdateRequest is the PUT /api/plans/:id body.
type UpdateRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	DurationDays *int             `json:"duration_days"`
	Features     *types.JSONText  `json:"features"`
	IsActive     *bool            `json:"is_active"`
}
