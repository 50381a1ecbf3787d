package domain

// Passport pairs the access and refresh tokens issued by a successful
// login or refresh. Both tokens carry the same subject and role but are
// signed under separate secrets.
type Passport struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
