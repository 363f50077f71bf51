//go:build unix

package adminos_test

import (
	"os"
	"testing"

	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestSignals(t *testing.T) {
	testCases := []struct {
		sig             os.Signal
		name            string
		wantShutdown    bool
		wantReconfigure bool
	}{{
		sig:             unix.SIGTERM,
		name:            "sigterm",
		wantShutdown:    true,
		wantReconfigure: false,
	}, {
		sig:             unix.SIGINT,
		name:            "sigint",
		wantShutdown:    true,
		wantReconfigure: false,
	}, {
		sig:             unix.SIGHUP,
		name:            "sighup",
		wantShutdown:    false,
		wantReconfigure: true,
	}, {
		sig:             unix.SIGUSR1,
		name:            "sigusr1",
		wantShutdown:    false,
		wantReconfigure: false,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantShutdown, adminos.IsShutdownSignal(tc.sig))
			assert.Equal(t, tc.wantReconfigure, adminos.IsReconfigureSignal(tc.sig))
		})
	}
}
