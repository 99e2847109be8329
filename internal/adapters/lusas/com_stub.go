//go:build !windows

package lusas

import (
	"context"
	"errors"
)

// The LUSAS automation interface is COM-only. On non-windows builds the
// default dialer fails; tests inject a fake through WithDialer.
func comDial(ctx context.Context, version string) (Modeller, error) {
	return nil, errors.New("LUSAS COM automation requires windows")
}
