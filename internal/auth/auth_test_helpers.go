package auth

import (
	"fmt"
	"testing"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// GetAccessToken logs a seeded account in and returns a signed access token
// for use in handler tests.
func GetAccessToken(t *testing.T, db *database.DBinstanceStruct, username, password string) (string, error) {
	t.Helper()

	var user model.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return "", err
	}

	if !utilities.VerifyPassword(password, user.Password) {
		return "", fmt.Errorf("password mismatch for %s", username)
	}

	token, _, err := GenerateStandardToken(user.ID)
	return token, err
}
