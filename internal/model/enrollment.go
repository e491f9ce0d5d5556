package model

import (
	"time"
)

type TargetKind string

const (
	TargetCommunity TargetKind = "community"
	TargetCourse    TargetKind = "course"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// Enrollment records a user's membership in a community or a course. Both
// kinds share one shape, tagged by TargetKind. The composite unique index on
// the raw (user, kind, target) tuple is the authoritative backstop against
// concurrent duplicate joins; leaving is a soft-cancel, and rejoining
// re-activates the existing row instead of inserting a second one.
type Enrollment struct {
	BaseModel
	UserID     uint             `gorm:"uniqueIndex:idx_user_target;type:bigint unsigned;not null" json:"userId"`
	User       User             `gorm:"foreignKey:UserID" json:"user"`
	TargetKind TargetKind       `gorm:"uniqueIndex:idx_user_target;size:20;not null" json:"targetKind"`
	TargetID   uint             `gorm:"uniqueIndex:idx_user_target;type:bigint unsigned;not null" json:"targetId"`
	Status     EnrollmentStatus `gorm:"size:20;default:'active';index" json:"status"`
	EnrolledAt time.Time        `json:"enrolledAt"`
	Progress   []LessonProgress `gorm:"foreignKey:EnrollmentID" json:"progress,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress is created lazily on first interaction with a lesson. Only
// the position and the completed flag are persisted; blocked/pending/
// in_progress are derived at read time.
type LessonProgress struct {
	BaseModel
	EnrollmentID        uint    `gorm:"uniqueIndex:idx_enrollment_lesson;type:bigint unsigned;not null" json:"enrollmentId"`
	LessonID            uint    `gorm:"uniqueIndex:idx_enrollment_lesson;type:bigint unsigned;not null" json:"lessonId"`
	LastPositionSeconds float64 `gorm:"default:0" json:"lastPositionSeconds"`
	Completed           bool    `gorm:"default:false" json:"completed"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// LessonState is the derived access state of a lesson for one enrollment.
type LessonState string

const (
	LessonBlocked    LessonState = "blocked"
	LessonPending    LessonState = "pending"
	LessonInProgress LessonState = "in_progress"
	LessonCompleted  LessonState = "completed"
)
