package model

import "time"

const (
	CategoryTypeIncome  = "INCOME"
	CategoryTypeExpense = "EXPENSE"
)

type Category struct {
	ID          int64
	ProfileID   int64
	Name        string
	Description *string
	Icon        *string
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Type        string  `json:"type"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profileId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) Response() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		ProfileID:   c.ProfileID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Type:        c.Type,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
