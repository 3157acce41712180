package dto

// LoginRequest payload for POST /login. Password is only checked when AUTH_USERS is configured.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// LoginResponse returns both tokens.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenRequest carries a refresh token for POST /token and DELETE /logout.
type TokenRequest struct {
	Token string `json:"token"`
}

// TokenResponse returns a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
