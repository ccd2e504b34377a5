// Package export writes resolved Ap/F10.7 records to ClickHouse and
// Parquet. Composite transmittance tables live in export/spectral so the
// index tools build without the curve loaders.
package export

import (
	"fmt"

	"github.com/KI7MT/ki7mt-gridaurora/internal/common"
)

// IndexTable is the default index table name.
const IndexTable = "apf107"

// Target is a ClickHouse destination table.
type Target struct {
	Addr     string
	Database string
	User     string
	Password string
	Table    string
}

// TargetFrom builds a Target for table from the shared tool config.
func TargetFrom(c *common.Config, table string) Target {
	return Target{
		Addr:     c.ClickHouseAddr(),
		Database: c.ClickHouseDatabase,
		User:     c.ClickHouseUser,
		Password: c.ClickHousePassword,
		Table:    table,
	}
}

// FQN returns database.table.
func (t Target) FQN() string {
	return fmt.Sprintf("%s.%s", t.Database, t.Table)
}
