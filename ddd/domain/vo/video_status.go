package vo

// VideoStatus 视频状态
type VideoStatus string

const (
	// VideoStatusUploading 上传中
	VideoStatusUploading VideoStatus = "uploading"
	// VideoStatusProcessing 处理中
	VideoStatusProcessing VideoStatus = "processing"
	// VideoStatusCompleted 已完成
	VideoStatusCompleted VideoStatus = "completed"
	// VideoStatusFailed 失败
	VideoStatusFailed VideoStatus = "failed"
)

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusUploading, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s VideoStatus) String() string {
	return string(s)
}

// IsTerminal 检查是否为终态
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}
