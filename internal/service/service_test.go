package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/pkg/database"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func deck() *model.Presentation {
	return &model.Presentation{
		UserID: "user-1",
		Title:  "Deck",
		Slides: []slides.Slide{
			{ID: "s1", Layout: slides.LayoutTitle, Title: "Hello"},
			{ID: "s2", Layout: slides.LayoutStats, Elements: []slides.SlideElement{{Type: slides.ElementText, Content: "85%|Happy"}}},
		},
	}
}

func TestPresentationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPresentationService(newTestDB(t))

	p := deck()
	require.NoError(t, svc.Create(ctx, p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, theme.DefaultName, p.Theme)
	assert.Equal(t, "decorated", p.Style)

	got, err := svc.Get(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slides, got.Slides)

	list, total, err := svc.List(ctx, "user-1", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Deck", list[0].Title)
	assert.Empty(t, list[0].Slides)

	got.Title = "Renamed"
	got.Slides = got.Slides[:1]
	require.NoError(t, svc.Update(ctx, "user-1", got))
	again, err := svc.Get(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Title)
	assert.Len(t, again.Slides, 1)
	assert.Equal(t, "user-1", again.UserID)

	deckOut := again.Deck()
	assert.Equal(t, "Renamed", deckOut.Title)
	assert.NotEmpty(t, deckOut.ID)

	require.NoError(t, svc.Delete(ctx, "user-1", p.ID))
	_, err = svc.Get(ctx, "user-1", p.ID)
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)
}

func TestPresentationOwnership(t *testing.T) {
	ctx := context.Background()
	svc := NewPresentationService(newTestDB(t))
	p := deck()
	require.NoError(t, svc.Create(ctx, p))

	_, err := svc.Get(ctx, "intruder", p.ID)
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "intruder", p.ID), constant.ErrRecordNotFound)
	p.Title = "hijack"
	assert.ErrorIs(t, svc.Update(ctx, "intruder", p), constant.ErrRecordNotFound)

	list, total, err := svc.List(ctx, "intruder", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, "user-1", 0)
	assert.ErrorIs(t, err, constant.ErrRecordIDEmpty)
	assert.ErrorIs(t, svc.Create(ctx, &model.Presentation{Title: "x"}), constant.ErrUnauthorized)
}

func TestBrandThemeDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewBrandThemeService(newTestDB(t))

	first := &model.BrandTheme{UserID: "u", IsDefault: true, Theme: theme.Resolve("tech")}
	require.NoError(t, svc.Create(ctx, first))
	assert.Equal(t, first.Theme.DisplayName, first.Name)

	second := &model.BrandTheme{UserID: "u", Name: "Brand", IsDefault: true, Theme: theme.Resolve("nature")}
	require.NoError(t, svc.Create(ctx, second))

	def, err := svc.GetDefault(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
	assert.Equal(t, "nature", def.Theme.Name)

	_, total, err := svc.List(ctx, "u", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = svc.GetDefault(ctx, "other")
	assert.ErrorIs(t, err, constant.ErrRecordNotFound)
}

func TestBrandThemeRejectsInvalidTheme(t *testing.T) {
	svc := NewBrandThemeService(newTestDB(t))
	err := svc.Create(context.Background(), &model.BrandTheme{UserID: "u", Theme: theme.Theme{Name: "x"}})
	var verr *constant.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPage(t *testing.T) {
	o, l := Page(-1, 0)
	assert.Equal(t, 0, o)
	assert.Equal(t, DefaultPageSize, l)
	_, l = Page(0, 1000)
	assert.Equal(t, MaxPageSize, l)
}
