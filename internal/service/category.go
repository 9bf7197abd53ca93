package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maulidiphilip/money-manager-api/internal/db"
	"github.com/maulidiphilip/money-manager-api/internal/model"
)

type categoryStore interface {
	CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	ListCategoriesByProfile(ctx context.Context, profileID int64) ([]model.Category, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
}

type CategoryService struct {
	store categoryStore
}

func NewCategoryService(store categoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// Create adds a category owned by the profile behind ownerEmail. Name and
// type are required; the name must be unique per owner.
func (s *CategoryService) Create(ctx context.Context, ownerEmail string, req model.CategoryRequest) (*model.CategoryResponse, error) {
	owner, err := s.ownerProfile(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	switch req.Type {
	case model.CategoryTypeIncome, model.CategoryTypeExpense:
	default:
		return nil, fmt.Errorf("%w: category type must be %s or %s", ErrInvalidInput, model.CategoryTypeIncome, model.CategoryTypeExpense)
	}

	created, err := s.store.CreateCategory(ctx, &model.Category{
		ProfileID:   owner.ID,
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
		Type:        req.Type,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category already exists", ErrConflict)
		}
		return nil, err
	}

	resp := created.Response()
	return &resp, nil
}

func (s *CategoryService) List(ctx context.Context, ownerEmail string) ([]model.CategoryResponse, error) {
	owner, err := s.ownerProfile(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategoriesByProfile(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	list := make([]model.CategoryResponse, 0, len(categories))
	for i := range categories {
		list = append(list, categories[i].Response())
	}
	return list, nil
}

func (s *CategoryService) ownerProfile(ctx context.Context, email string) (*model.Profile, error) {
	profile, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, email)
		}
		return nil, err
	}
	return profile, nil
}
