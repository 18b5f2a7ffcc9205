package event

const (
	// CodeIssuedDestination is the topic that carries freshly issued
	// verification codes toward delivery.
	CodeIssuedDestination = "verification_code_issued"

	// CodeIssuedNotificationConsumer identifies the notification module
	// consumer for CodeIssuedDestination.
	CodeIssuedNotificationConsumer = "verification_code_issued_notification"
)

// CodeIssuedMessage is the payload published on CodeIssuedDestination.
//
// It carries the plaintext code because the subscriber has to put it in the
// email body; the code is never persisted in this form.
type CodeIssuedMessage struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}
