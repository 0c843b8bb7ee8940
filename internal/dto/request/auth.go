package request

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type TokenRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}
