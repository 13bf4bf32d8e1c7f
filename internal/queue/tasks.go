package queue

import (
	"time"

	"github.com/zrg-storefront/internal/constants"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
)

const (
	// TaskCatalogRefresh 目录刷新与详情预热任务
	TaskCatalogRefresh = constants.TaskCatalogRefresh
	// TaskSnapshotPurge 过期访客快照清理任务
	TaskSnapshotPurge = constants.TaskSnapshotPurge
)

var taskJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// CatalogRefreshPayload 目录刷新任务载荷
type CatalogRefreshPayload struct {
	Trigger     string `json:"trigger"` // cron / startup
	WarmDetails bool   `json:"warm_details"`
}

// SnapshotPurgePayload 快照清理任务载荷
type SnapshotPurgePayload struct {
	Before time.Time `json:"before"`
}

// NewCatalogRefreshTask 创建目录刷新任务
func NewCatalogRefreshTask(payload CatalogRefreshPayload) (*asynq.Task, error) {
	body, err := taskJSON.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogRefresh, body), nil
}

// NewSnapshotPurgeTask 创建快照清理任务
func NewSnapshotPurgeTask(payload SnapshotPurgePayload) (*asynq.Task, error) {
	body, err := taskJSON.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotPurge, body), nil
}

// ParseCatalogRefreshPayload 解析目录刷新载荷，空载荷视为需要预热
func ParseCatalogRefreshPayload(body []byte) (CatalogRefreshPayload, error) {
	payload := CatalogRefreshPayload{WarmDetails: true}
	if len(body) == 0 {
		return payload, nil
	}
	if err := taskJSON.Unmarshal(body, &payload); err != nil {
		return CatalogRefreshPayload{}, err
	}
	return payload, nil
}

// ParseSnapshotPurgePayload 解析快照清理载荷
func ParseSnapshotPurgePayload(body []byte) (SnapshotPurgePayload, error) {
	var payload SnapshotPurgePayload
	if err := taskJSON.Unmarshal(body, &payload); err != nil {
		return SnapshotPurgePayload{}, err
	}
	return payload, nil
}
