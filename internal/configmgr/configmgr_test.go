package configmgr_test

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// writeFile encodes f into the file with the given name.
func writeFile(tb testing.TB, fileName string, f *configmgr.File) {
	tb.Helper()

	b, err := yaml.Marshal(f)
	require.NoError(tb, err)

	err = os.WriteFile(fileName, b, 0o600)
	require.NoError(tb, err)
}

// newTestManager returns a new manager for the configuration file with the
// given name and the session registry it uses.
func newTestManager(
	tb testing.TB,
	fileName string,
	f *configmgr.File,
) (m *configmgr.Manager, sessions *session.Registry) {
	tb.Helper()

	sessions = session.NewRegistry(&session.RegistryConfig{
		Logger:  slogutil.NewDiscardLogger(),
		Clock:   timeutil.SystemClock{},
		Metrics: session.EmptyMetrics{},
	})

	m, err := configmgr.New(testutil.ContextWithTimeout(tb, testTimeout), &configmgr.Config{
		BaseLogger:  slogutil.NewDiscardLogger(),
		Logger:      slogutil.NewDiscardLogger(),
		Clock:       timeutil.SystemClock{},
		Sessions:    sessions,
		Metrics:     prometheus.NewRegistry(),
		AuthMetrics: auth.EmptyMetrics{},
		File:        f,
		WebAddr:     netip.MustParseAddrPort("127.0.0.1:0"),
		FileName:    fileName,
	})
	require.NoError(tb, err)

	return m, sessions
}

func TestManager_Reload(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "CatalogAdmin.yaml")

	f := newValidFile(t)
	writeFile(t, fileName, f)

	m, sessions := newTestManager(t, fileName, f)
	require.NotNil(t, m.Web())
	require.NotNil(t, m.Sweeper())

	ctx := testutil.ContextWithTimeout(t, testTimeout)

	u, err := m.Users().ByLogin(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, u)

	sessions.Create(ctx, "expired", u.ID, u.Login, -time.Second)
	sessions.Create(ctx, "valid", u.ID, u.Login, time.Hour)

	f.Users = []*configmgr.UserConfig{{
		Name:     "editor",
		Password: newHash(t, "password"),
		ID:       2,
	}}
	writeFile(t, fileName, f)

	err = m.Reload(ctx)
	require.NoError(t, err)

	u, err = m.Users().ByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = m.Users().ByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, adminuser.Login("editor"), u.Login)

	// The expired session is swept, and the valid one is kept until its next
	// use.
	assert.Equal(t, 1, sessions.Len())

	t.Run("invalid", func(t *testing.T) {
		f.Session.TTL = 0
		writeFile(t, fileName, f)

		err = m.Reload(ctx)
		require.Error(t, err)

		u, err = m.Users().ByID(ctx, 2)
		require.NoError(t, err)

		assert.NotNil(t, u)
	})
}

func TestNew_noUsers(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "CatalogAdmin.yaml")

	f := configmgr.Default()
	f.Auth.MaxAttempts = 0
	writeFile(t, fileName, f)

	m, _ := newTestManager(t, fileName, f)

	users, err := m.Users().All(testutil.ContextWithTimeout(t, testTimeout))
	require.NoError(t, err)

	assert.Empty(t, users)
}
