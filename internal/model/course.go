package model

type LessonType string

const (
	LessonVideo   LessonType = "video"
	LessonPDF     LessonType = "pdf"
	LessonArticle LessonType = "article"
)

type Course struct {
	BaseModel
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	CommunityID  uint      `gorm:"index;type:bigint unsigned;not null" json:"communityId"`
	Community    Community `gorm:"foreignKey:CommunityID" json:"-"`
	OwnerID      uint      `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Membership   float64   `gorm:"default:0" json:"membership"` // access cost; zero means free
	MinimumSkill string    `gorm:"size:50" json:"minimumSkill"`
	Lessons      []Lesson  `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Lesson order is explicit and drives the sequential unlock policy.
type Lesson struct {
	BaseModel
	CourseID        uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Type            LessonType `gorm:"size:20;not null" json:"type"`
	ContentURL      string     `gorm:"size:255" json:"contentUrl"`
	Thumbnail       string     `gorm:"size:255" json:"thumbnail,omitempty"`
	DurationSeconds float64    `gorm:"default:0" json:"durationSeconds"`
	Order           int        `gorm:"column:lesson_order;default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
