package inbound

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. We sent a verification code to your email."
}

type ResendRequest struct {
	Email string `json:"email"`
}

type ResendResponse struct{}

func (ResendResponse) Message() string {
	return "A new verification code has been sent to your email."
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyResponse struct{}

func (VerifyResponse) Message() string {
	return "Email verified successfully."
}
