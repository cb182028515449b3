package dto

// AuthRequest describes advisor login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// OTPRequest asks for a customer login code.
type OTPRequest struct {
	Phone string `json:"phone"`
}

// OTPVerifyRequest submits a customer login code.
type OTPVerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}
