package service

import "github.com/aussiebroadwan/guildhall/internal/auth/domain"

// BuildClaims maps an identity onto the claims carried by its access
// tokens. It carries enough profile data that the UI never has to call
// back for the basics.
func BuildClaims(u domain.UserIdentity) domain.ClaimSet {
	return domain.ClaimSet{
		SubjectID:     u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.IsEmailVerified,
		Role:          u.Role,
		AvatarURL:     u.AvatarURL,
		Level:         u.Level,
		XP:            u.XP,
	}
}
