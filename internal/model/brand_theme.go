package model

import (
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/pkg/util"
	"gorm.io/gorm"
)

// BrandTheme 用户保存的自定义主题
type BrandTheme struct {
	BaseModel
	UserID    string      `json:"userId" gorm:"type:varchar(64);index;not null"`
	Name      string      `json:"name" gorm:"type:varchar(100);not null"`
	IsDefault bool        `json:"isDefault" gorm:"default:false"`
	Theme     theme.Theme `json:"theme" gorm:"serializer:json;type:text"`
}

func (b *BrandTheme) TableComment() string {
	return "品牌主题表"
}

// BeforeCreate 创建前钩子
func (b *BrandTheme) BeforeCreate(tx *gorm.DB) error {
	if b.ID == 0 {
		b.ID = util.NewID()
	}
	return nil
}

func init() {
	models = append(models, &BrandTheme{})
}
