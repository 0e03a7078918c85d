package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"valeod/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors.OneError()
	}

	// Cross-field rules the tag language cannot express.
	switch cv.conf.Storage.Backend {
	case "file":
		if cv.conf.Storage.FilePath == "" {
			return fmt.Errorf("storage.filePath is required for the file backend")
		}
	case "postgres":
		if cv.conf.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.databaseUrl is required for the postgres backend")
		}
	}

	if cv.conf.Reports.NetRevenueShare <= 0 || cv.conf.Reports.NetRevenueShare > 1 {
		return fmt.Errorf("reports.netRevenueShare must be within (0,1], got %f", cv.conf.Reports.NetRevenueShare)
	}

	// Log files are reopened with O_APPEND on every start; a mode without
	// owner write locks the process out of its own logs on restart.
	if cv.conf.Logger.Mode&0o200 == 0 {
		return fmt.Errorf("logger.mode %#o must include owner write", cv.conf.Logger.Mode)
	}

	return nil
}
