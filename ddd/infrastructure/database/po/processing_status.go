package po

// ProcessingStatus 处理状态持久化对象，每个视频唯一一行
type ProcessingStatus struct {
	BaseModel
	VideoUUID    string `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	CurrentStage string `gorm:"column:current_stage;type:varchar(30);index" json:"current_stage"`
	Progress     int    `gorm:"column:progress;type:int;default:0" json:"progress"`
	Message      string `gorm:"column:message;type:varchar(255)" json:"message"`
	AudioLocator string `gorm:"column:audio_locator;type:varchar(512)" json:"audio_locator"` // 断点续跑用
}

// TableName 指定表名
func (ProcessingStatus) TableName() string {
	return "processing_statuses"
}
