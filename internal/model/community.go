package model

// Community is a named group with a single owning publisher. AverageRating and
// AverageCost are derived columns, recomputed eagerly from reviews and courses.
type Community struct {
	BaseModel
	Name          string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description   string  `gorm:"type:text" json:"description"`
	OwnerID       uint    `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Owner         User    `gorm:"foreignKey:OwnerID" json:"owner"`
	PhotoURL      string  `gorm:"size:255" json:"photoUrl"`
	Topics        []Topic `gorm:"many2many:community_topics" json:"topics"`
	AverageRating float64 `gorm:"default:0" json:"averageRating"`
	AverageCost   float64 `gorm:"default:0" json:"averageCost"`
}

func (Community) TableName() string {
	return "communities"
}
