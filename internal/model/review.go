package model

// One review per (user, community); every save/delete triggers a recompute of
// the community's averageRating.
type Review struct {
	BaseModel
	UserID      uint   `gorm:"uniqueIndex:idx_user_community;type:bigint unsigned;not null" json:"userId"`
	User        User   `gorm:"foreignKey:UserID" json:"user"`
	CommunityID uint   `gorm:"uniqueIndex:idx_user_community;type:bigint unsigned;not null" json:"communityId"`
	Title       string `gorm:"size:100" json:"title"`
	Text        string `gorm:"type:text" json:"text"`
	Rating      int    `gorm:"not null" json:"rating"` // 1-10
}

func (Review) TableName() string {
	return "reviews"
}
