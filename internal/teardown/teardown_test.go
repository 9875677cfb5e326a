package teardown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/storage"
	"github.com/contexthub-dev/contexthub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T, gdb *gorm.DB) (*Service, *storage.AvatarStore) {
	t.Helper()

	avatars, err := storage.NewAvatarStore(filepath.Join(t.TempDir(), "avatars"))
	require.NoError(t, err)

	return NewService(gdb, avatars, zap.NewNop()), avatars
}

// seedAccount creates a user owning the given number of projects, each with
// profiles, server configs, custom configs and API keys, plus sessions and
// an auth linkage.
func seedAccount(t *testing.T, gdb *gorm.DB, email string, projects, profiles, configs int) models.User {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)

	for p := 0; p < projects; p++ {
		project := models.Project{Name: fmt.Sprintf("project-%d", p), OwnerID: user.ID}
		require.NoError(t, gdb.Create(&project).Error)

		for i := 0; i < 2; i++ {
			key := models.APIKey{ProjectID: project.ID, Name: fmt.Sprintf("key-%d", i), Key: "ch_" + uuid.NewString()}
			require.NoError(t, gdb.Create(&key).Error)
		}

		for pr := 0; pr < profiles; pr++ {
			profile := models.Profile{Name: fmt.Sprintf("profile-%d", pr), ProjectID: project.ID}
			require.NoError(t, gdb.Create(&profile).Error)

			for c := 0; c < configs; c++ {
				sc := models.ServerConfig{ProfileID: profile.ID, Name: fmt.Sprintf("server-%d", c), Config: []byte(`{"url":"http://example.com"}`)}
				require.NoError(t, gdb.Create(&sc).Error)

				cc := models.CustomServerConfig{ProfileID: profile.ID, Name: fmt.Sprintf("custom-%d", c), Command: "run", Args: []byte(`[]`), Env: []byte(`{}`)}
				require.NoError(t, gdb.Create(&cc).Error)
			}
		}
	}

	for s := 0; s < 2; s++ {
		sess := models.Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, gdb.Create(&sess).Error)
	}

	linkage := models.AuthLinkage{UserID: user.ID, Provider: "github", ProviderAccountID: uuid.NewString()}
	require.NoError(t, gdb.Create(&linkage).Error)

	return user
}

func count(t *testing.T, gdb *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func tableTotals(t *testing.T, gdb *gorm.DB) map[string]int64 {
	t.Helper()

	totals := make(map[string]int64)

	for name, model := range map[string]interface{}{
		"users":          &models.User{},
		"projects":       &models.Project{},
		"profiles":       &models.Profile{},
		"server_configs": &models.ServerConfig{},
		"custom_configs": &models.CustomServerConfig{},
		"api_keys":       &models.APIKey{},
		"sessions":       &models.Session{},
		"auth_linkages":  &models.AuthLinkage{},
	} {
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		totals[name] = n
	}

	return totals
}

func TestTeardownRemovesOwnedSubtree(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, _ := newService(t, gdb)

	victim := seedAccount(t, gdb, "victim@example.com", 3, 2, 2)
	bystander := seedAccount(t, gdb, "bystander@example.com", 2, 1, 1)

	result, err := svc.Teardown(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	assert.Zero(t, count(t, gdb, &models.User{}, "id = ?", victim.ID))
	assert.Zero(t, count(t, gdb, &models.Project{}, "owner_id = ?", victim.ID))
	assert.Zero(t, count(t, gdb, &models.Session{}, "user_id = ?", victim.ID))
	assert.Zero(t, count(t, gdb, &models.AuthLinkage{}, "user_id = ?", victim.ID))

	// The whole subtree is gone, so every remaining row belongs to the
	// bystander.
	totals := tableTotals(t, gdb)
	assert.Equal(t, int64(1), totals["users"])
	assert.Equal(t, int64(2), totals["projects"])
	assert.Equal(t, int64(2), totals["profiles"])
	assert.Equal(t, int64(2), totals["server_configs"])
	assert.Equal(t, int64(2), totals["custom_configs"])
	assert.Equal(t, int64(4), totals["api_keys"])
	assert.Equal(t, int64(2), totals["sessions"])
	assert.Equal(t, int64(1), totals["auth_linkages"])

	assert.Equal(t, int64(1), count(t, gdb, &models.User{}, "id = ?", bystander.ID))
}

func TestTeardownTwiceReturnsNotFound(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, _ := newService(t, gdb)

	user := seedAccount(t, gdb, "once@example.com", 1, 1, 1)

	_, err := svc.Teardown(context.Background(), user.ID)
	require.NoError(t, err)

	before := tableTotals(t, gdb)

	_, err = svc.Teardown(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, tableTotals(t, gdb))
}

func TestTeardownPurgesOrphanSessions(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, _ := newService(t, gdb)

	const ghostID = 4242

	for i := 0; i < 3; i++ {
		sess := models.Session{ID: uuid.NewString(), UserID: ghostID, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, gdb.Create(&sess).Error)
	}

	_, err := svc.Teardown(context.Background(), ghostID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, count(t, gdb, &models.Session{}, "user_id = ?", ghostID))
}

func TestTeardownRollsBackOnFailure(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, _ := newService(t, gdb)

	user := seedAccount(t, gdb, "rollback@example.com", 2, 2, 2)

	before := tableTotals(t, gdb)

	injected := errors.New("injected delete failure")
	require.NoError(t, gdb.Callback().Delete().Before("gorm:delete").Register("inject_failure", func(tx *gorm.DB) {
		if tx.Statement.Table == "profiles" {
			tx.AddError(injected)
		}
	}))
	t.Cleanup(func() {
		require.NoError(t, gdb.Callback().Delete().Remove("inject_failure"))
	})

	_, err := svc.Teardown(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrTeardownFailed)

	// Full rollback: nothing in the subtree was removed.
	assert.Equal(t, before, tableTotals(t, gdb))
	assert.Equal(t, int64(1), count(t, gdb, &models.User{}, "id = ?", user.ID))
}

func TestTeardownRemovesAvatarFile(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, avatars := newService(t, gdb)

	user := seedAccount(t, gdb, "avatar@example.com", 1, 1, 1)

	path := filepath.Join(avatars.Dir(), "1.png")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", user.ID).Update("avatar_path", path).Error)

	result, err := svc.Teardown(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTeardownAvatarFailureIsWarningOnly(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, avatars := newService(t, gdb)

	user := seedAccount(t, gdb, "warn@example.com", 1, 1, 1)

	// Inside the managed directory but never created: removal will fail.
	missing := filepath.Join(avatars.Dir(), "missing.png")
	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", user.ID).Update("avatar_path", missing).Error)

	result, err := svc.Teardown(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 1)

	assert.Zero(t, count(t, gdb, &models.User{}, "id = ?", user.ID))
}

func TestTeardownIgnoresUnmanagedAvatarPath(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc, _ := newService(t, gdb)

	user := seedAccount(t, gdb, "outside@example.com", 1, 1, 1)

	outside := filepath.Join(t.TempDir(), "keep.png")
	require.NoError(t, os.WriteFile(outside, []byte("img"), 0o644))
	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", user.ID).Update("avatar_path", outside).Error)

	result, err := svc.Teardown(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}
