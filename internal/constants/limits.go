package constants

import "time"

const (
	SessionTokenTTL  = 7 * 24 * time.Hour
	PasswordHashCost = 10 // bcrypt rounds
	MinPasswordLen   = 6

	MaxPhotoBytes = 5 << 20
	// Multipart bodies larger than this are rejected before parsing
	MaxRequestBytes = MaxPhotoBytes + 1<<20

	MemberListCacheTTL = 5 * time.Minute
)
