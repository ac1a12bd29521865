package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/pkg/logger"
	"gorm.io/gorm"
)

type brandThemeService struct {
	*BaseService[*model.BrandTheme]
}

func NewBrandThemeService(db *gorm.DB) *brandThemeService {
	return &brandThemeService{NewBaseService[*model.BrandTheme](db)}
}

// Create 保存前校验主题，设为默认时取消该用户其他主题的默认标记
func (s *brandThemeService) Create(ctx context.Context, record *model.BrandTheme) error {
	if record.UserID == "" {
		return constant.ErrUnauthorized
	}
	if err := record.Theme.Validate(); err != nil {
		return err
	}
	if record.Name == "" {
		record.Name = record.Theme.DisplayName
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.IsDefault {
			if err := tx.Model(&model.BrandTheme{}).
				Where("user_id = ? AND is_default = ?", record.UserID, true).
				Update("is_default", false).Error; err != nil {
				logger.Error("取消默认主题失败", logger.F("userId", record.UserID), logger.F("err", err))
				return fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
			}
		}
		if err := tx.Create(record).Error; err != nil {
			logger.Error("创建记录失败", logger.F("table", record.TableComment()), logger.F("err", err))
			return fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
		}
		return nil
	})
}

// GetDefault 用户的默认主题
func (s *brandThemeService) GetDefault(ctx context.Context, userID string) (*model.BrandTheme, error) {
	record := &model.BrandTheme{}
	err := s.owned(ctx, userID).Where("is_default = ?", true).First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, constant.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return record, nil
}
