package dto

// IssueKind 发码结果类型
type IssueKind string

const (
	// IssueKindIssued 发码成功
	IssueKindIssued IssueKind = "issued"
	// IssueKindDuplicate 生成的码已存在，提示用户重试
	IssueKindDuplicate IssueKind = "duplicate"
	// IssueKindReinitialized 表缺失已重建，提示用户重试
	IssueKindReinitialized IssueKind = "reinitialized"
)

// IssueResult 发码结果
type IssueResult struct {
	Kind IssueKind `json:"kind"`
	Code string    `json:"code,omitempty"` // 仅 Issued 时有值
}

// RedeemKind 验码结果类型
type RedeemKind string

const (
	// RedeemKindFound 码存在
	RedeemKindFound RedeemKind = "found"
	// RedeemKindNotFound 码不存在
	RedeemKindNotFound RedeemKind = "not_found"
	// RedeemKindRejected 长度不符，未查询数据库
	RedeemKindRejected RedeemKind = "rejected"
	// RedeemKindReinitialized 表缺失已重建，提示用户重试
	RedeemKindReinitialized RedeemKind = "reinitialized"
)

// RedeemResult 验码结果
type RedeemResult struct {
	Kind RedeemKind `json:"kind"`
	Code string     `json:"code,omitempty"` // 仅 Found 时有值
}

// Valid 是否验证通过
func (r *RedeemResult) Valid() bool { return r != nil && r.Kind == RedeemKindFound }
