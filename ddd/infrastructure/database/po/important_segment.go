package po

// ImportantSegment 重要片段持久化对象，分析阶段的产出
type ImportantSegment struct {
	BaseModel
	VideoUUID  string  `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	StartTime  float64 `gorm:"column:start_time;type:double" json:"start_time"`
	EndTime    float64 `gorm:"column:end_time;type:double" json:"end_time"`
	Score      float64 `gorm:"column:score;type:double" json:"score"`
	Reason     string  `gorm:"column:reason;type:varchar(500)" json:"reason"`
	Text       string  `gorm:"column:text;type:text" json:"text"`
	OrderIndex int     `gorm:"column:order_index;type:int" json:"order_index"`
}

// TableName 指定表名
func (ImportantSegment) TableName() string {
	return "important_segments"
}
