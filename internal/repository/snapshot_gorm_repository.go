package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zrg-storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository GORM 实现
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建数据库快照仓库
func NewSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSnapshotRepository) WithTx(tx *gorm.DB) *GormSnapshotRepository {
	if tx == nil {
		return r
	}
	return &GormSnapshotRepository{db: tx}
}

// Get 读取快照
func (r *GormSnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return nil, false, err
	}
	var row models.Snapshot
	err = r.db.WithContext(ctx).Where("key = ?", normalized).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapSnapshotErr("database", "get", err)
	}
	return []byte(row.Value), true, nil
}

// Put 按 key 覆盖写入
func (r *GormSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	now := time.Now()
	row := models.Snapshot{
		Key:       normalized,
		Value:     string(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	return wrapSnapshotErr("database", "put", err)
}

// Delete 删除快照
func (r *GormSnapshotRepository) Delete(ctx context.Context, key string) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Where("key = ?", normalized).Delete(&models.Snapshot{}).Error
	return wrapSnapshotErr("database", "delete", err)
}

// PurgeBefore 在事务内清理长期未更新的快照，返回删除数量
func (r *GormSnapshotRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := r.WithTx(tx).deleteBefore(before)
		removed = n
		return err
	})
	if err != nil {
		return 0, wrapSnapshotErr("database", "purge", err)
	}
	return removed, nil
}

func (r *GormSnapshotRepository) deleteBefore(before time.Time) (int64, error) {
	var stale int64
	if err := r.db.Model(&models.Snapshot{}).Where("updated_at < ?", before).Count(&stale).Error; err != nil {
		return 0, err
	}
	if stale == 0 {
		return 0, nil
	}
	result := r.db.Where("updated_at < ?", before).Delete(&models.Snapshot{})
	return result.RowsAffected, result.Error
}
