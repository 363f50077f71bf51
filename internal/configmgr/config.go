package configmgr

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/c2h5oh/datasize"
	"golang.org/x/crypto/bcrypt"
)

// CurrentSchemaVersion is the current version of the configuration file
// structure.
const CurrentSchemaVersion uint = 1

// File is the top-level on-disk configuration structure.
type File struct {
	HTTP    *HTTPConfig    `yaml:"http"`
	Session *SessionConfig `yaml:"session"`
	Auth    *AuthConfig    `yaml:"auth"`
	Log     *LogConfig     `yaml:"log"`
	Metrics *MetricsConfig `yaml:"metrics"`
	Users   []*UserConfig  `yaml:"users"`

	SchemaVersion uint `yaml:"schema_version"`
}

// type check
var _ validate.Interface = (*File)(nil)

// Validate implements the [validate.Interface] interface for *File.
func (f *File) Validate() (err error) {
	if f == nil {
		return errors.ErrNoValue
	}

	var errs []error
	if f.SchemaVersion != CurrentSchemaVersion {
		errs = append(errs, fmt.Errorf(
			"schema_version: %w: got %d, want %d",
			errors.ErrBadEnumValue,
			f.SchemaVersion,
			CurrentSchemaVersion,
		))
	}

	// Keep this in the same order as the fields in the config.
	errs = validate.Append(errs, "http", f.HTTP)
	errs = validate.Append(errs, "session", f.Session)
	errs = validate.Append(errs, "auth", f.Auth)
	errs = validate.Append(errs, "log", f.Log)
	errs = validate.Append(errs, "metrics", f.Metrics)

	_, err = toUsers(f.Users)
	if err != nil {
		errs = append(errs, fmt.Errorf("users: %w", err))
	}

	return errors.Join(errs...)
}

// validatePositive returns an error if v isn't positive.
func validatePositive[T ~int64 | ~uint64](name string, v T) (err error) {
	if v <= 0 {
		return fmt.Errorf("%s: %w: %v", name, errors.ErrNotPositive, v)
	}

	return nil
}

// HTTPConfig is the on-disk web service configuration.
type HTTPConfig struct {
	// Address is the address to serve the HTTP API on.
	Address netip.AddrPort `yaml:"address"`

	// Timeout is the timeout for all server operations.
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodySize is the maximum size of request bodies.
	MaxBodySize datasize.ByteSize `yaml:"max_body_size"`

	// SecureCookie makes the session cookie HTTPS-only.
	SecureCookie bool `yaml:"secure_cookie"`
}

// type check
var _ validate.Interface = (*HTTPConfig)(nil)

// Validate implements the [validate.Interface] interface for *HTTPConfig.
func (c *HTTPConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	var errs []error
	if !c.Address.IsValid() {
		errs = append(errs, fmt.Errorf("address: %w", errors.ErrEmptyValue))
	}

	errs = append(
		errs,
		validatePositive("timeout", c.Timeout),
		validatePositive("max_body_size", c.MaxBodySize),
	)

	return errors.Join(errs...)
}

// SessionConfig is the on-disk session configuration.
type SessionConfig struct {
	// TTL is the time-to-live of new sessions.
	TTL time.Duration `yaml:"ttl"`

	// SweepInterval is the interval between the removals of the expired
	// sessions.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// type check
var _ validate.Interface = (*SessionConfig)(nil)

// Validate implements the [validate.Interface] interface for *SessionConfig.
func (c *SessionConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		validatePositive("ttl", c.TTL),
		validatePositive("sweep_interval", c.SweepInterval),
	)
}

// AuthConfig is the on-disk login rate limiting configuration.
type AuthConfig struct {
	// MaxAttempts is the number of failed login attempts after which the
	// remote address is blocked.  Zero disables the blocking.
	MaxAttempts uint `yaml:"max_attempts"`

	// BlockDuration is the duration of the blocking.
	BlockDuration time.Duration `yaml:"block_duration"`
}

// type check
var _ validate.Interface = (*AuthConfig)(nil)

// Validate implements the [validate.Interface] interface for *AuthConfig.
func (c *AuthConfig) Validate() (err error) {
	switch {
	case c == nil:
		return errors.ErrNoValue
	case c.MaxAttempts == 0:
		return nil
	default:
		return validatePositive("block_duration", c.BlockDuration)
	}
}

// LogConfig is the on-disk logging configuration.
type LogConfig struct {
	// File is the path to the log file.  Empty string and "stdout" mean the
	// standard output, "stderr" means the standard error.
	File string `yaml:"file"`

	// MaxSize is the maximum size of the log file before it gets rotated.
	MaxSize datasize.ByteSize `yaml:"max_size"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `yaml:"max_backups"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `yaml:"max_age"`

	// Compress enables compression of rotated log files.
	Compress bool `yaml:"compress"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// type check
var _ validate.Interface = (*LogConfig)(nil)

// Validate implements the [validate.Interface] interface for *LogConfig.
func (c *LogConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		validatePositive("max_size", c.MaxSize),
		validate.NotNegative("max_backups", c.MaxBackups),
		validate.NotNegative("max_age", c.MaxAge),
	)
}

// MetricsConfig is the on-disk Prometheus metrics configuration.
type MetricsConfig struct {
	// Namespace is the namespace of all metrics.
	Namespace string `yaml:"namespace"`
}

// type check
var _ validate.Interface = (*MetricsConfig)(nil)

// Validate implements the [validate.Interface] interface for *MetricsConfig.
func (c *MetricsConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return validate.NotEmpty("namespace", c.Namespace)
}

// UserConfig is the on-disk web user configuration.
type UserConfig struct {
	// Name is the login of the user.
	Name string `yaml:"name"`

	// Password is the bcrypt hash of the password of the user.
	Password string `yaml:"password"`

	// ID is the unique positive identifier of the user.
	ID int64 `yaml:"id"`
}

// toUser converts c into a web user.
func (c *UserConfig) toUser() (u *adminuser.User, err error) {
	if c == nil {
		return nil, errors.ErrNoValue
	}

	var errs []error

	id, err := adminuser.NewUserID(c.ID)
	if err != nil {
		errs = append(errs, fmt.Errorf("id: %w", err))
	}

	login, err := adminuser.NewLogin(c.Name)
	if err != nil {
		errs = append(errs, fmt.Errorf("name: %w", err))
	}

	_, err = bcrypt.Cost([]byte(c.Password))
	if err != nil {
		errs = append(errs, fmt.Errorf("password: %w", err))
	}

	err = errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return &adminuser.User{
		Password: adminuser.NewDefaultPassword(c.Password),
		Login:    login,
		ID:       id,
	}, nil
}

// toUsers converts the on-disk user configurations into web users checking
// that the identifiers and logins are unique.
func toUsers(confs []*UserConfig) (users []*adminuser.User, err error) {
	var errs []error

	ids := map[adminuser.UserID]struct{}{}
	logins := map[adminuser.Login]struct{}{}
	for i, c := range confs {
		u, uErr := c.toUser()
		if uErr != nil {
			errs = append(errs, fmt.Errorf("at index %d: %w", i, uErr))

			continue
		}

		if _, ok := ids[u.ID]; ok {
			errs = append(errs, fmt.Errorf("at index %d: id: %w: %s", i, errors.ErrDuplicated, u.ID))
		}

		if _, ok := logins[u.Login]; ok {
			errs = append(errs, fmt.Errorf(
				"at index %d: name: %w: %q",
				i,
				errors.ErrDuplicated,
				u.Login,
			))
		}

		ids[u.ID], logins[u.Login] = struct{}{}, struct{}{}
		users = append(users, u)
	}

	err = errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return users, nil
}
