package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/pkg/logger"
	"gorm.io/gorm"
)

// BaseService 单表增删改查，查询都限定在 owner 范围内
type BaseService[T model.Model] struct {
	db       *gorm.DB
	listOmit []string
}

// NewBaseService listOmit 为列表查询时不返回的列
func NewBaseService[T model.Model](db *gorm.DB, listOmit ...string) *BaseService[T] {
	return &BaseService[T]{db: db, listOmit: listOmit}
}

func (s *BaseService[T]) NewModel() T {
	var t T
	tType := reflect.TypeOf(t)

	// 如果 T 是指针类型，则需要创建指针指向的对象
	if tType.Kind() == reflect.Ptr {
		return reflect.New(tType.Elem()).Interface().(T)
	}
	return reflect.New(tType).Elem().Interface().(T)
}

func (s *BaseService[T]) ListOrder() string {
	return "updated_at DESC"
}

// owned 按用户过滤
func (s *BaseService[T]) owned(ctx context.Context, userID string) *gorm.DB {
	return s.db.WithContext(ctx).Model(s.NewModel()).Where("user_id = ?", userID)
}

// Create 创建记录
func (s *BaseService[T]) Create(ctx context.Context, record T) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("创建记录失败", logger.F("table", record.TableComment()), logger.F("err", err))
		return fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return nil
}

// Get 查询用户的记录
func (s *BaseService[T]) Get(ctx context.Context, userID string, id uint64) (T, error) {
	if id == 0 {
		return s.NewModel(), constant.ErrRecordIDEmpty
	}
	record := s.NewModel()
	if err := s.owned(ctx, userID).Where("id = ?", id).First(record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		logger.Error("查询记录失败", logger.F("id", id), logger.F("err", err))
		return record, fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return record, nil
}

// Update 整体替换用户的记录，记录不属于该用户时视为不存在
func (s *BaseService[T]) Update(ctx context.Context, userID string, record T) error {
	if _, err := s.Get(ctx, userID, record.GetID()); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(record).Select("*").Omit("id", "user_id", "created_at").Updates(record).Error; err != nil {
		logger.Error("更新记录失败", logger.F("id", record.GetID()), logger.F("err", err))
		return fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return nil
}

// Delete 删除用户的记录
func (s *BaseService[T]) Delete(ctx context.Context, userID string, id uint64) error {
	record, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(record).Error; err != nil {
		logger.Error("删除记录失败", logger.F("id", id), logger.F("err", err))
		return fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return nil
}

// List 查询用户的记录列表
func (s *BaseService[T]) List(ctx context.Context, userID string, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64

	query := s.owned(ctx, userID)
	if err := query.Count(&total).Error; err != nil {
		return records, 0, fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}

	if len(s.listOmit) > 0 {
		query = query.Omit(s.listOmit...)
	}
	if err := query.Offset(offset).Limit(limit).Order(s.ListOrder()).Find(&records).Error; err != nil {
		return records, 0, fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return records, total, nil
}
