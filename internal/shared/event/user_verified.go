package event

const (
	// UserVerifiedDestination is the topic announcing a completed verification.
	UserVerifiedDestination = "verification_user_verified"

	// UserVerifiedNotificationConsumer identifies the notification module
	// consumer for UserVerifiedDestination.
	UserVerifiedNotificationConsumer = "verification_user_verified_notification"
)

// UserVerifiedMessage is the payload published on UserVerifiedDestination.
type UserVerifiedMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
