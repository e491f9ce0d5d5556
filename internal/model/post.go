package model

import (
	"gorm.io/datatypes"
)

// Post is a community timeline entry. Attachments are stored as a JSON array
// of uploaded file URLs.
type Post struct {
	UUIDBase
	CommunityID uint           `gorm:"index;type:bigint unsigned;not null" json:"communityId"`
	AuthorID    uint           `gorm:"index;type:bigint unsigned;not null" json:"authorId"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`
	Views       int            `gorm:"default:0" json:"views"`
}

func (Post) TableName() string {
	return "posts"
}
