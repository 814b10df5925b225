package model

import (
	"time"

	"gorm.io/gorm"
)

// TipLink 分享用打赏短链接
// 长链接 (带 query 参数的 URL) 是纯函数拼出来的，不落库；短链接才需要存储。
type TipLink struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Recipient string         `gorm:"type:varchar(128);not null;index" json:"recipient"`
	Amount    string         `gorm:"type:varchar(64)" json:"amount,omitempty"`  // 建议金额 (展示单位, 可空)
	Message   string         `gorm:"type:varchar(100)" json:"message,omitempty"` // 与 memo 同样的 100 字符上限
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (TipLink) TableName() string {
	return "tip_links"
}
