package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

// CategoryInput carries category fields for create and update.
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

// CategoryService handles category CRUD.
type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error)
	// Delete is blocked while products still reference the category;
	// cascading would silently destroy catalog rows.
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// Create creates a category with a unique name.
func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByName(ctx, input.Name)
	if err == nil && existing != nil {
		return nil, errors.ErrCategoryNameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category := &model.Category{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update updates an existing category.
func (s *categoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	if input.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(ctx, input.Name)
		if err == nil && existing != nil && existing.ID != id {
			return nil, errors.ErrCategoryNameTaken
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check category name: %w", err)
		}
	}

	category.Name = input.Name
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	_ = s.cache.Delete(ctx, categoryCacheKey(id))
	return category, nil
}

// Delete removes a category that has no products.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if count > 0 {
		return errors.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	_ = s.cache.Delete(ctx, categoryCacheKey(id))
	return nil
}

// Get returns a category, served from cache when possible.
func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	key := categoryCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var category model.Category
		if err := json.Unmarshal(data, &category); err == nil {
			return &category, nil
		}
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(category); err == nil {
		_ = s.cache.Set(ctx, key, data, catalogCacheTTL)
	}
	return category, nil
}

// List lists all categories.
func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func categoryCacheKey(id uint) string {
	return fmt.Sprintf("category:%d", id)
}
