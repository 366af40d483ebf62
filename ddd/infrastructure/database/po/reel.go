package po

// Reel Reel持久化对象，由重要片段剪辑出的短视频
type Reel struct {
	BaseModel
	ReelUUID      string  `gorm:"column:reel_uuid;type:varchar(36);uniqueIndex" json:"reel_uuid"`
	VideoUUID     string  `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	SegmentID     uint64  `gorm:"column:segment_id;index" json:"segment_id"`
	Title         string  `gorm:"column:title;type:varchar(255)" json:"title"`
	OutputLocator string  `gorm:"column:output_locator;type:varchar(512)" json:"output_locator"`
	StartTime     float64 `gorm:"column:start_time;type:double" json:"start_time"`
	EndTime       float64 `gorm:"column:end_time;type:double" json:"end_time"`
	Status        string  `gorm:"column:status;type:varchar(20);index" json:"status"` // generating, completed, failed
	FailureReason string  `gorm:"column:failure_reason;type:varchar(500)" json:"failure_reason"`
}

// TableName 指定表名
func (Reel) TableName() string {
	return "reels"
}
