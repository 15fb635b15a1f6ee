package utils

import (
	"fmt"
	"testing"

	"github.com/Luismorlan/chirp/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// create user with username directly through db, do sanity checks and returns
// its Id
func TestCreateUserAndValidate(t *testing.T, username string, db *gorm.DB) uint {
	user := model.User{
		PublicId:    "pub_" + username,
		Email:       fmt.Sprintf("%s@example.com", username),
		Username:    username,
		DisplayName: username,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotZero(t, user.Id)

	var stored model.User
	require.NoError(t, db.First(&stored, user.Id).Error)
	require.Equal(t, username, stored.Username)
	require.False(t, stored.Verified)
	require.Nil(t, stored.Bio)
	require.Truef(t, !stored.CreatedAt.IsZero(), "time created wrong")
	require.False(t, stored.DeletedAt.Valid)

	return user.Id
}
