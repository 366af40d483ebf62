package po

// Video 视频持久化对象
type Video struct {
	BaseModel
	VideoUUID       string  `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	UserUUID        string  `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Title           string  `gorm:"column:title;type:varchar(255)" json:"title"`
	SourceLocator   string  `gorm:"column:source_locator;type:varchar(512)" json:"source_locator"`
	DurationSeconds float64 `gorm:"column:duration_seconds;type:double;default:0" json:"duration_seconds"`
	Status          string  `gorm:"column:status;type:varchar(20);index" json:"status"` // uploading, processing, completed, failed
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
