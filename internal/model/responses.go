package model

// AccessToken struct holds the access token data
type AccessToken struct {
	Token string `json:"token"`
}

// StudentResponse struct holds the response data for student login or registration
type StudentResponse struct {
	User        Student `json:"user"`
	AccessToken string  `json:"access_token"`
}

// CompanyResponse struct holds the response data for company login or registration
type CompanyResponse struct {
	User        User     `json:"user"`
	Company     *Company `json:"company,omitempty"`
	AccessToken string   `json:"access_token"`
}

// AccountResponse struct holds the response data for management, support and
// IES account login
type AccountResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
