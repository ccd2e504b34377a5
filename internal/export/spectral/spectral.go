// Package spectral writes composite system transmittance tables to
// ClickHouse and Parquet.
package spectral

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/KI7MT/ki7mt-gridaurora/internal/export"
	"github.com/KI7MT/ki7mt-gridaurora/internal/optics"
)

// Table is the default transmittance table name.
const Table = "system_transmittance"

// TableDDL creates the transmittance table; %s is the fully qualified name.
const TableDDL = `CREATE TABLE IF NOT EXISTS %s (
    run_id           UUID,
    filter_name      String,
    observer_alt_km  Float64,
    zenith_angle_deg Float64,
    wavelength_nm    Float64,
    filter_t         Float64,
    window_t         Float64,
    qe               Float64,
    atm              Float64,
    sys_no_bg3       Float64,
    sys              Float64,
    suspect          Bool
) ENGINE = MergeTree
ORDER BY (run_id, wavelength_nm)`

// Row matches the transmittance Parquet schema
type Row struct {
	RunID          string  `parquet:"run_id"`
	FilterName     string  `parquet:"filter_name"`
	ObserverAltKm  float64 `parquet:"observer_alt_km"`
	ZenithAngleDeg float64 `parquet:"zenith_angle_deg"`
	WavelengthNm   float64 `parquet:"wavelength_nm"`
	Filter         float64 `parquet:"filter_t"`
	Window         float64 `parquet:"window_t"`
	QE             float64 `parquet:"qe"`
	Atm            float64 `parquet:"atm"`
	SysNoBG3       float64 `parquet:"sys_no_bg3"`
	Sys            float64 `parquet:"sys"`
	Suspect        bool    `parquet:"suspect"`
}

// Rows flattens st into one row per grid point.
func Rows(runID uuid.UUID, geom optics.Geometry, st *optics.SystemT) []Row {
	id := runID.String()
	rows := make([]Row, st.Len())
	for i := range rows {
		rows[i] = Row{
			RunID:          id,
			FilterName:     st.FilterName,
			ObserverAltKm:  geom.ObserverAltKm,
			ZenithAngleDeg: geom.ZenithAngleDeg,
			WavelengthNm:   st.WavelengthNm[i],
			Filter:         st.Filter[i],
			Window:         st.Window[i],
			QE:             st.QE[i],
			Atm:            st.Atm[i],
			SysNoBG3:       st.SysNoBG3[i],
			Sys:            st.Sys[i],
			Suspect:        st.Suspect,
		}
	}
	return rows
}

// WriteParquet writes st to path.
func WriteParquet(path string, runID uuid.UUID, geom optics.Geometry, st *optics.SystemT) error {
	return export.WriteParquet(path, Rows(runID, geom, st))
}

// Sink inserts composite tables with batched appends.
type Sink struct {
	conn  driver.Conn
	table string
}

// OpenSink connects to the target and pings the server.
func OpenSink(ctx context.Context, t export.Target) (*Sink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{t.Addr},
		Auth: clickhouse.Auth{
			Database: t.Database,
			Username: t.User,
			Password: t.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("ClickHouse connection failed: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ClickHouse ping failed: %w", err)
	}
	return &Sink{conn: conn, table: t.FQN()}, nil
}

// CreateTable creates the destination table if it does not exist.
func (s *Sink) CreateTable(ctx context.Context) error {
	return s.conn.Exec(ctx, fmt.Sprintf(TableDDL, s.table))
}

// Write inserts one row per grid point of st.
func (s *Sink) Write(ctx context.Context, runID uuid.UUID, geom optics.Geometry, st *optics.SystemT) error {
	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", s.table))
	if err != nil {
		return err
	}

	for _, r := range Rows(runID, geom, st) {
		err := batch.Append(
			runID,
			r.FilterName,
			r.ObserverAltKm,
			r.ZenithAngleDeg,
			r.WavelengthNm,
			r.Filter,
			r.Window,
			r.QE,
			r.Atm,
			r.SysNoBG3,
			r.Sys,
			r.Suspect,
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("append %g nm: %w", r.WavelengthNm, err)
		}
	}
	return batch.Send()
}

func (s *Sink) Close() error {
	return s.conn.Close()
}
