package po

// Transcript 转写文本持久化对象，每个视频至多一份
type Transcript struct {
	BaseModel
	VideoUUID string `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	FullText  string `gorm:"column:full_text;type:longtext" json:"full_text"`
	Language  string `gorm:"column:language;type:varchar(20)" json:"language"`
}

// TableName 指定表名
func (Transcript) TableName() string {
	return "transcripts"
}

// TranscriptSegment 转写分段持久化对象，带时间戳
type TranscriptSegment struct {
	BaseModel
	TranscriptID uint64  `gorm:"column:transcript_id;index" json:"transcript_id"`
	VideoUUID    string  `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	StartTime    float64 `gorm:"column:start_time;type:double" json:"start_time"`
	EndTime      float64 `gorm:"column:end_time;type:double" json:"end_time"`
	Text         string  `gorm:"column:text;type:text" json:"text"`
	Confidence   float64 `gorm:"column:confidence;type:double;default:0" json:"confidence"`
	OrderIndex   int     `gorm:"column:order_index;type:int" json:"order_index"`
}

// TableName 指定表名
func (TranscriptSegment) TableName() string {
	return "transcript_segments"
}
