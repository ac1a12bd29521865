package model

import (
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/pkg/util"
	"gorm.io/gorm"
)

// Presentation 用户保存的演示文稿，幻灯片整体以JSON存储
type Presentation struct {
	BaseModel
	UserID       string         `json:"userId" gorm:"type:varchar(64);index;not null"`
	Title        string         `json:"title" gorm:"type:varchar(255);not null"`
	Theme        string         `json:"theme" gorm:"type:varchar(64)"`
	Style        string         `json:"style" gorm:"type:varchar(20);default:'decorated'"`
	BrandThemeID uint64         `json:"brandThemeId,string,omitempty" gorm:"index"`
	CustomTheme  *theme.Theme   `json:"customTheme,omitempty" gorm:"serializer:json;type:text"`
	Slides       []slides.Slide `json:"slides" gorm:"serializer:json;type:text"`
}

func (p *Presentation) TableComment() string {
	return "演示文稿表"
}

// BeforeCreate 创建前钩子
func (p *Presentation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = util.NewID()
	}
	return nil
}

// Deck 转换为渲染用的结构
func (p *Presentation) Deck() *slides.Presentation {
	return &slides.Presentation{
		ID:          util.FormatID(p.ID),
		Title:       p.Title,
		Theme:       p.Theme,
		CustomTheme: p.CustomTheme,
		Slides:      p.Slides,
	}
}

func init() {
	models = append(models, &Presentation{})
}
