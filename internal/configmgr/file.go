package configmgr

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
	"github.com/ShopCraft/CatalogAdmin/internal/metrics"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/c2h5oh/datasize"
	"github.com/google/renameio/v2/maybe"
	"gopkg.in/yaml.v3"
)

// Default values of the configuration.
const (
	DefaultSessionTTL    = 720 * time.Hour
	DefaultMaxAttempts   = 5
	DefaultBlockDuration = 15 * time.Minute
)

// Default returns the configuration with the default values and no users.
func Default() (f *File) {
	return &File{
		HTTP: &HTTPConfig{
			Address:      netip.MustParseAddrPort("127.0.0.1:3000"),
			Timeout:      30 * time.Second,
			MaxBodySize:  64 * datasize.KB,
			SecureCookie: false,
		},
		Session: &SessionConfig{
			TTL:           DefaultSessionTTL,
			SweepInterval: session.DefaultSweepInterval,
		},
		Auth: &AuthConfig{
			MaxAttempts:   DefaultMaxAttempts,
			BlockDuration: DefaultBlockDuration,
		},
		Log: &LogConfig{
			File:       "",
			MaxSize:    100 * datasize.MB,
			MaxBackups: 0,
			MaxAge:     3,
			Compress:   false,
			Verbose:    false,
		},
		Metrics: &MetricsConfig{
			Namespace: metrics.DefaultNamespace,
		},
		Users:         []*UserConfig{},
		SchemaVersion: CurrentSchemaVersion,
	}
}

// ReadFile reads, decodes, and validates the configuration file with the given
// name.
func ReadFile(fileName string) (f *File, err error) {
	f, err = read(fileName)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	err = f.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return f, nil
}

// read reads and decodes configuration from the provided file name.
func read(fileName string) (f *File, err error) {
	defer func() { err = errors.Annotate(err, "reading config: %w") }()

	file, err := os.Open(fileName)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}
	defer func() { err = errors.WithDeferred(err, file.Close()) }()

	f = &File{}
	err = yaml.NewDecoder(file).Decode(f)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	return f, nil
}

// WriteDefault writes the default configuration into a new file with the
// given name.  It returns an error if the file already exists.
func WriteDefault(fileName string) (err error) {
	defer func() { err = errors.Annotate(err, "writing default config: %w") }()

	_, err = os.Stat(fileName)
	if err == nil {
		return fmt.Errorf("file %q: %w", fileName, os.ErrExist)
	} else if !errors.Is(err, os.ErrNotExist) {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	b, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	return maybe.WriteFile(fileName, b, adminos.DefaultPermFile)
}
