package dto

// GoogleLoginRequest payload for POST /user/google-login.
type GoogleLoginRequest struct {
	GoogleToken string `json:"googleToken"`
	IP          string `json:"-"`
	UserAgent   string `json:"-"`
}

// GoogleLoginResponse returns the session token issued for a provisioned identity.
type GoogleLoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
