package configmgr_test

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/ShopCraft/CatalogAdmin/internal/configmgr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newHash returns the bcrypt hash of passwd using the minimum cost.
func newHash(tb testing.TB, passwd string) (hash string) {
	tb.Helper()

	b, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.MinCost)
	require.NoError(tb, err)

	return string(b)
}

// newValidFile returns a valid configuration with a single user.
func newValidFile(tb testing.TB) (f *configmgr.File) {
	tb.Helper()

	f = configmgr.Default()
	f.Users = []*configmgr.UserConfig{{
		Name:     "admin",
		Password: newHash(tb, "password"),
		ID:       1,
	}}

	return f
}

func TestFile_Validate(t *testing.T) {
	hash := newHash(t, "password")

	testCases := []struct {
		modify     func(f *configmgr.File)
		wantErrIs  error
		name       string
		wantErrHas string
	}{{
		modify:     func(_ *configmgr.File) {},
		wantErrIs:  nil,
		name:       "valid",
		wantErrHas: "",
	}, {
		modify:     func(f *configmgr.File) { f.Session.TTL = 0 },
		wantErrIs:  errors.ErrNotPositive,
		name:       "zero_ttl",
		wantErrHas: "session: ttl",
	}, {
		modify:     func(f *configmgr.File) { f.Session.SweepInterval = -time.Second },
		wantErrIs:  errors.ErrNotPositive,
		name:       "negative_sweep_interval",
		wantErrHas: "session: sweep_interval",
	}, {
		modify:     func(f *configmgr.File) { f.Session = nil },
		wantErrIs:  errors.ErrNoValue,
		name:       "no_session",
		wantErrHas: "session",
	}, {
		modify:     func(f *configmgr.File) { f.HTTP.Address = netip.AddrPort{} },
		wantErrIs:  errors.ErrEmptyValue,
		name:       "no_address",
		wantErrHas: "http: address",
	}, {
		modify:     func(f *configmgr.File) { f.HTTP.MaxBodySize = 0 },
		wantErrIs:  errors.ErrNotPositive,
		name:       "zero_body_size",
		wantErrHas: "http: max_body_size",
	}, {
		modify:     func(f *configmgr.File) { f.Auth.BlockDuration = 0 },
		wantErrIs:  errors.ErrNotPositive,
		name:       "zero_block_duration",
		wantErrHas: "auth: block_duration",
	}, {
		modify: func(f *configmgr.File) {
			f.Auth.MaxAttempts = 0
			f.Auth.BlockDuration = 0
		},
		wantErrIs:  nil,
		name:       "rate_limit_disabled",
		wantErrHas: "",
	}, {
		modify:     func(f *configmgr.File) { f.Metrics.Namespace = "" },
		wantErrIs:  errors.ErrEmptyValue,
		name:       "empty_namespace",
		wantErrHas: "metrics: namespace",
	}, {
		modify:     func(f *configmgr.File) { f.SchemaVersion = 0 },
		wantErrIs:  errors.ErrBadEnumValue,
		name:       "bad_schema_version",
		wantErrHas: "schema_version",
	}, {
		modify: func(f *configmgr.File) {
			f.Users = append(f.Users, &configmgr.UserConfig{
				Name:     "admin",
				Password: hash,
				ID:       2,
			})
		},
		wantErrIs:  errors.ErrDuplicated,
		name:       "duplicate_name",
		wantErrHas: "users: at index 1: name",
	}, {
		modify: func(f *configmgr.File) {
			f.Users = append(f.Users, &configmgr.UserConfig{
				Name:     "editor",
				Password: hash,
				ID:       1,
			})
		},
		wantErrIs:  errors.ErrDuplicated,
		name:       "duplicate_id",
		wantErrHas: "users: at index 1: id",
	}, {
		modify:     func(f *configmgr.File) { f.Users[0].Name = "" },
		wantErrIs:  errors.ErrEmptyValue,
		name:       "empty_name",
		wantErrHas: "users: at index 0: name",
	}, {
		modify:     func(f *configmgr.File) { f.Users[0].ID = 0 },
		wantErrIs:  errors.ErrNotPositive,
		name:       "zero_id",
		wantErrHas: "users: at index 0: id",
	}, {
		modify:     func(f *configmgr.File) { f.Users[0].Password = "plain" },
		wantErrIs:  nil,
		name:       "bad_hash",
		wantErrHas: "users: at index 0: password",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newValidFile(t)
			tc.modify(f)

			err := f.Validate()
			if tc.wantErrHas == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)

			assert.Contains(t, err.Error(), tc.wantErrHas)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		var f *configmgr.File
		assert.ErrorIs(t, f.Validate(), errors.ErrNoValue)
	})
}

func TestWriteDefault(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "CatalogAdmin.yaml")

	err := configmgr.WriteDefault(fileName)
	require.NoError(t, err)

	f, err := configmgr.ReadFile(fileName)
	require.NoError(t, err)

	addrPortComparer := cmp.Comparer(func(a, b netip.AddrPort) (ok bool) { return a == b })
	if diff := cmp.Diff(configmgr.Default(), f, addrPortComparer, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("read config mismatch (-want +got):\n%s", diff)
	}

	err = configmgr.WriteDefault(fileName)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("not_exist", func(t *testing.T) {
		_, err := configmgr.ReadFile(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad_yaml", func(t *testing.T) {
		fileName := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(fileName, []byte("http: [\n"), 0o600))

		_, err := configmgr.ReadFile(fileName)
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		fileName := filepath.Join(dir, "invalid.yaml")
		data := []byte(`
http:
  address: 127.0.0.1:3000
  timeout: 30s
  max_body_size: 64KB
session:
  ttl: 0s
  sweep_interval: 1h
auth:
  max_attempts: 5
  block_duration: 15m
log:
  max_size: 100MB
metrics:
  namespace: test
schema_version: 1
`)
		require.NoError(t, os.WriteFile(fileName, data, 0o600))

		_, err := configmgr.ReadFile(fileName)
		assert.ErrorIs(t, err, errors.ErrNotPositive)
	})
}
