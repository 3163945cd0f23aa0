package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the caller roles recognised by this service.
type UserRole string

const (
	RoleTeacher       UserRole = "TEACHER"
	RolePlatformAdmin UserRole = "PLATFORM_ADMIN"
)

// NetworkClaims is the JWT payload issued by the platform's identity service.
// The acting classroom id is taken from here and passed explicitly into every
// core call; nothing reads ambient actor state.
type NetworkClaims struct {
	TeacherID   string   `json:"teacher_id"`
	ClassroomID string   `json:"classroom_id"`
	Role        UserRole `json:"role"`
	jwt.RegisteredClaims
}
