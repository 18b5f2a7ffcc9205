package entity

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified mean user exists but has not completed verification.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive mean user is verified and allowed to use the app.
	UserStatusActive UserStatus = 2

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusUnverified:
		return "Unverified"
	default:
		return "Unknown"
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusActive:
		return UserStatusActive
	case UserStatusBanned:
		return UserStatusBanned
	case UserStatusUnverified:
		return UserStatusUnverified
	default:
		return UserStatusUnknown
	}
}

// ChallengeState is the derived lifecycle state of a challenge.
type ChallengeState int16

const (
	ChallengeStatePending   ChallengeState = 1
	ChallengeStateVerified  ChallengeState = 2
	ChallengeStateExpired   ChallengeState = 3
	ChallengeStateExhausted ChallengeState = 4
)

func (cs ChallengeState) String() string {
	switch cs {
	case ChallengeStatePending:
		return "Pending"
	case ChallengeStateVerified:
		return "Verified"
	case ChallengeStateExpired:
		return "Expired"
	case ChallengeStateExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}
