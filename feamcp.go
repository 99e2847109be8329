// Package feamcp wires the vendor adapters, object registry and operation
// router into an MCP tool server that lets AI agents drive geometry
// modelling in running FEA applications (ETABS, LUSAS).
package feamcp

import (
	"fmt"
	"log/slog"

	"github.com/feamcp/feamcp/internal/adapters/etabs"
	"github.com/feamcp/feamcp/internal/adapters/lusas"
	"github.com/feamcp/feamcp/internal/config"
	"github.com/feamcp/feamcp/pkg/fea"
	"github.com/feamcp/feamcp/pkg/router"
)

// Version is the library version.
const Version = "1.0.0"

// NewAdapter builds the vendor adapter named by the configuration. One
// adapter is bound per process lifetime; switching vendors means restarting.
func NewAdapter(cfg config.Config, log *slog.Logger) (fea.Adapter, error) {
	switch cfg.FEA.Software {
	case config.SoftwareETABS:
		return etabs.New(
			etabs.WithVersion(cfg.FEA.SoftwareVersion()),
			etabs.WithLogger(log),
		), nil
	case config.SoftwareLUSAS:
		return lusas.New(
			lusas.WithVersion(cfg.FEA.SoftwareVersion()),
			lusas.WithLogger(log),
		), nil
	default:
		return nil, fmt.Errorf("unsupported software %q", cfg.FEA.Software)
	}
}

// New builds the operation router bound to the configured vendor adapter.
func New(cfg config.Config, log *slog.Logger) (*router.Router, error) {
	adapter, err := NewAdapter(cfg, log)
	if err != nil {
		return nil, err
	}
	return router.New(adapter, log), nil
}
