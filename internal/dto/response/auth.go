package response

// SignupResponse echoes the accepted fields; the confirmation code
// itself only travels out-of-band.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
