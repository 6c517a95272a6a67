package attachment

import "time"

// Attachment is an uploaded object referenced by the value of a file field.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	MemberID    uint      `gorm:"not null" json:"member_id"`
	ObjectKey   string    `gorm:"size:255;not null;uniqueIndex" json:"object_key"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}
