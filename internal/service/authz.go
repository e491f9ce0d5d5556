package service

import (
	"learnhub_backend/internal/model"
)

// Stateless authorization predicates. They never mutate state; callers
// translate a false result into the Forbidden domain error.

func IsAdmin(role model.UserRole) bool {
	return role == model.Admin
}

func IsOwnerOrAdmin(userID uint, role model.UserRole, ownerID uint) bool {
	return userID == ownerID || IsAdmin(role)
}

// IsEnrolledOrFree gates course content: an active enrollment, a free course,
// the course owner, or an admin all pass.
func IsEnrolledOrFree(enrolled bool, course *model.Course, userID uint, role model.UserRole) bool {
	if enrolled || course.Membership == 0 {
		return true
	}
	return IsOwnerOrAdmin(userID, role, course.OwnerID)
}
