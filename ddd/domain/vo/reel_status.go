package vo

// ReelStatus Reel状态
type ReelStatus string

const (
	// ReelStatusGenerating 生成中
	ReelStatusGenerating ReelStatus = "generating"
	// ReelStatusCompleted 已完成
	ReelStatusCompleted ReelStatus = "completed"
	// ReelStatusFailed 失败
	ReelStatusFailed ReelStatus = "failed"
)

// IsValid 检查状态是否有效
func (s ReelStatus) IsValid() bool {
	switch s {
	case ReelStatusGenerating, ReelStatusCompleted, ReelStatusFailed:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s ReelStatus) String() string {
	return string(s)
}

// IsTerminal 检查是否为终态；终态后不允许再变更
func (s ReelStatus) IsTerminal() bool {
	return s == ReelStatusCompleted || s == ReelStatusFailed
}
