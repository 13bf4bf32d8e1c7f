package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var snapshotBucket = []byte("snapshots")

// BoltSnapshotRepository bbolt 单文件实现
type BoltSnapshotRepository struct {
	db *bolt.DB
}

// OpenBoltSnapshotRepository 打开（必要时创建）bolt 文件
func OpenBoltSnapshotRepository(path string) (*BoltSnapshotRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir failed: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt failed: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket failed: %w", err)
	}
	return &BoltSnapshotRepository{db: db}, nil
}

// Get 读取快照
func (r *BoltSnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var out []byte
	err = r.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(snapshotBucket).Get([]byte(normalized))
		if value != nil {
			// bolt 返回的切片只在事务内有效
			out = make([]byte, len(value))
			copy(out, value)
		}
		return nil
	})
	if err != nil {
		return nil, false, wrapSnapshotErr("bolt", "get", err)
	}
	return out, out != nil, nil
}

// Put 写入快照
func (r *BoltSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put([]byte(normalized), value)
	})
	return wrapSnapshotErr("bolt", "put", err)
}

// Delete 删除快照
func (r *BoltSnapshotRepository) Delete(ctx context.Context, key string) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Delete([]byte(normalized))
	})
	return wrapSnapshotErr("bolt", "delete", err)
}

// Close 关闭 bolt 文件
func (r *BoltSnapshotRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
