package models

import "time"

// Snapshot 访客状态快照，每个 key 一行，整体覆盖写入
type Snapshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (Snapshot) TableName() string {
	return "storefront_snapshots"
}
