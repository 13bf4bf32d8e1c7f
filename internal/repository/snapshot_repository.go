package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSnapshotKeyEmpty 快照 key 为空
var ErrSnapshotKeyEmpty = errors.New("snapshot key is empty")

// SnapshotRepository 访客状态快照存储接口，value 为不透明的序列化内容
type SnapshotRepository interface {
	// Get 读取快照，不存在时返回 found=false
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put 整体覆盖写入
	Put(ctx context.Context, key string, value []byte) error
	// Delete 删除快照，不存在时不报错
	Delete(ctx context.Context, key string) error
}

// SnapshotKey 生成访客维度的快照 key：<prefix>:<visitor_id>:<key>
func SnapshotKey(prefix, visitorID, key string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{prefix, visitorID, key} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ":")
}

func normalizeSnapshotKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrSnapshotKeyEmpty
	}
	return trimmed, nil
}

func wrapSnapshotErr(driver, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s snapshot %s failed: %w", driver, op, err)
}
