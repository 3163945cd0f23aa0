package models

import "time"

// Visibility controls who can discover a classroom's network profile.
type Visibility string

// Possible profile visibility levels.
const (
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilityNetworkOnly Visibility = "NETWORK_ONLY"
	VisibilityInviteOnly  Visibility = "INVITE_ONLY"
)

// Valid reports whether the visibility is one of the closed set.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityNetworkOnly, VisibilityInviteOnly:
		return true
	}
	return false
}

// Discoverable reports whether profiles at this level appear in discovery
// results. Invite-only profiles are addressable but never discoverable.
func (v Visibility) Discoverable() bool {
	switch v {
	case VisibilityPublic, VisibilityNetworkOnly:
		return true
	case VisibilityInviteOnly:
		return false
	}
	return false
}

// NetworkProfile is a classroom's network participation record. There is at
// most one per classroom; disabling keeps the row so connection history
// survives.
type NetworkProfile struct {
	ClassroomID      string     `db:"classroom_id" json:"classroom_id"`
	Enabled          bool       `db:"enabled" json:"enabled"`
	Visibility       Visibility `db:"visibility" json:"visibility"`
	DisplayName      string     `db:"display_name" json:"display_name"`
	Bio              string     `db:"bio" json:"bio"`
	Region           string     `db:"region" json:"region"`
	GradeLevel       string     `db:"grade_level" json:"grade_level"`
	SchoolType       string     `db:"school_type" json:"school_type"`
	ShareHarvestData bool       `db:"share_harvest_data" json:"share_harvest_data"`
	SharePhotos      bool       `db:"share_photos" json:"share_photos"`
	ShareGrowthTips  bool       `db:"share_growth_tips" json:"share_growth_tips"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// DiscoveryFilter captures the discovery search criteria.
type DiscoveryFilter struct {
	Region           string
	GradeLevel       string
	SchoolType       string
	Search           string
	ExcludeConnected bool
	Limit            int
}

// ClassroomSummary is a discoverable profile enriched with directory info.
type ClassroomSummary struct {
	NetworkProfile
	ClassroomName string `db:"classroom_name" json:"classroom_name"`
}
