package userservice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/bloglist/internal/common"
)

func TestUserModel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	db := common.TestDB("file://../../migrations", t)

	testUserStore(t, func(t *testing.T) UserStore {
		t.Cleanup(func() {
			_, err := db.Exec("DELETE FROM users")
			require.NoError(t, err)
		})
		return NewUserModel(db)
	})
}
