package model

// GoogleUserInfo mirrors the fields of Google's userinfo endpoint response
// that the login flow consumes.
type GoogleUserInfo struct {
	GID       string `json:"sub"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
}

// FillGoogleInfo populates a student account from Google user info.
func (s *Student) FillGoogleInfo(info GoogleUserInfo) {
	s.User.GoogleID = info.GID
	s.User.Role = RoleStudent
	s.User.Username = info.Email
	s.User.FullName = info.FirstName + " " + info.LastName
	s.User.Email = &info.Email
	s.User.AvatarURL = info.Picture
}
