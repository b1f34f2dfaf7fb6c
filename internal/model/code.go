package model

import "time"

// Code 访问码表，对应 codes
// 只插入不更新，无过期与删除
type Code struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                       json:"id"`
	Code      string    `gorm:"type:varchar(64);unique;not null"               json:"code"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;autoCreateTime:false" json:"created_at"`
}

// TableName 指定表名
func (Code) TableName() string { return "codes" }
