package service

import (
	"context"

	"github.com/yockii/ppt_tools/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PresentationService interface {
	Create(ctx context.Context, record *model.Presentation) error
	Update(ctx context.Context, userID string, record *model.Presentation) error
	Delete(ctx context.Context, userID string, id uint64) error
	Get(ctx context.Context, userID string, id uint64) (*model.Presentation, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*model.Presentation, int64, error)
}

type BrandThemeService interface {
	Create(ctx context.Context, record *model.BrandTheme) error
	Delete(ctx context.Context, userID string, id uint64) error
	Get(ctx context.Context, userID string, id uint64) (*model.BrandTheme, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*model.BrandTheme, int64, error)
	GetDefault(ctx context.Context, userID string) (*model.BrandTheme, error)
}

// Page 规范化分页参数
func Page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}
