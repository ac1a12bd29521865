package service

import (
	"context"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/internal/theme"
	"gorm.io/gorm"
)

type presentationService struct {
	*BaseService[*model.Presentation]
}

func NewPresentationService(db *gorm.DB) *presentationService {
	// 列表不返回幻灯片内容
	return &presentationService{NewBaseService[*model.Presentation](db, "slides", "custom_theme")}
}

// Create 保存演示文稿，Theme 为空时使用默认主题
func (s *presentationService) Create(ctx context.Context, record *model.Presentation) error {
	if record.UserID == "" {
		return constant.ErrUnauthorized
	}
	if record.Theme == "" {
		record.Theme = theme.DefaultName
	}
	if record.Style == "" {
		record.Style = "decorated"
	}
	return s.BaseService.Create(ctx, record)
}
