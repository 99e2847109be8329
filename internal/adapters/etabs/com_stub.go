//go:build !windows

package etabs

import (
	"context"
	"errors"
)

// The ETABS automation interface is COM-only. On non-windows builds the
// default dialer fails; tests inject a fake through WithDialer.
func comDial(ctx context.Context) (SapModel, error) {
	return nil, errors.New("ETABS COM automation requires windows")
}
