package export

import (
	"context"
	"fmt"

	"github.com/ClickHouse/ch-go"
	"github.com/ClickHouse/ch-go/proto"
	"github.com/google/uuid"

	"github.com/KI7MT/ki7mt-gridaurora/internal/solar"
)

// IndexTableDDL creates the index table; %s is the fully qualified name.
const IndexTableDDL = `CREATE TABLE IF NOT EXISTS %s (
    run_id         UUID,
    requested_date Date32,
    date           Date32,
    source         String,
    ap             Float64,
    f107           Float64,
    ap_smoothed    Float64,
    f107_smoothed  Float64
) ENGINE = MergeTree
ORDER BY (requested_date, source)`

// IndexBatch holds column data for native insert
type IndexBatch struct {
	RunID        *proto.ColUUID
	Requested    *proto.ColDate32
	Date         *proto.ColDate32
	Source       *proto.ColStr
	Ap           *proto.ColFloat64
	F107         *proto.ColFloat64
	ApSmoothed   *proto.ColFloat64
	F107Smoothed *proto.ColFloat64
}

func NewIndexBatch() *IndexBatch {
	return &IndexBatch{
		RunID:        new(proto.ColUUID),
		Requested:    new(proto.ColDate32),
		Date:         new(proto.ColDate32),
		Source:       new(proto.ColStr),
		Ap:           new(proto.ColFloat64),
		F107:         new(proto.ColFloat64),
		ApSmoothed:   new(proto.ColFloat64),
		F107Smoothed: new(proto.ColFloat64),
	}
}

func (b *IndexBatch) Reset() {
	b.RunID.Reset()
	b.Requested.Reset()
	b.Date.Reset()
	b.Source.Reset()
	b.Ap.Reset()
	b.F107.Reset()
	b.ApSmoothed.Reset()
	b.F107Smoothed.Reset()
}

func (b *IndexBatch) Len() int {
	return b.Requested.Rows()
}

func (b *IndexBatch) Input() proto.Input {
	return proto.Input{
		{Name: "run_id", Data: b.RunID},
		{Name: "requested_date", Data: b.Requested},
		{Name: "date", Data: b.Date},
		{Name: "source", Data: b.Source},
		{Name: "ap", Data: b.Ap},
		{Name: "f107", Data: b.F107},
		{Name: "ap_smoothed", Data: b.ApSmoothed},
		{Name: "f107_smoothed", Data: b.F107Smoothed},
	}
}

func (b *IndexBatch) AddRecord(runID uuid.UUID, r solar.IndexRecord) {
	b.RunID.Append(runID)
	b.Requested.Append(r.Requested)
	b.Date.Append(r.Date)
	b.Source.Append(r.Source.String())
	b.Ap.Append(r.Ap)
	b.F107.Append(r.F107)
	b.ApSmoothed.Append(r.ApSmoothed)
	b.F107Smoothed.Append(r.F107Smoothed)
}

// IndexSink inserts resolved records over the ClickHouse native protocol.
type IndexSink struct {
	conn  *ch.Client
	table string
	runID uuid.UUID
}

// DialIndexSink connects to the target. All rows written through the sink
// carry runID.
func DialIndexSink(ctx context.Context, t Target, runID uuid.UUID) (*IndexSink, error) {
	conn, err := ch.Dial(ctx, ch.Options{
		Address:     t.Addr,
		Database:    t.Database,
		User:        t.User,
		Password:    t.Password,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		return nil, fmt.Errorf("ClickHouse connection failed: %w", err)
	}
	return &IndexSink{conn: conn, table: t.FQN(), runID: runID}, nil
}

// CreateTable creates the destination table if it does not exist.
func (s *IndexSink) CreateTable(ctx context.Context) error {
	return s.conn.Do(ctx, ch.Query{Body: fmt.Sprintf(IndexTableDDL, s.table)})
}

// Exec runs a statement without input, e.g. TRUNCATE.
func (s *IndexSink) Exec(ctx context.Context, q ch.Query) error {
	return s.conn.Do(ctx, q)
}

// Write inserts recs in a single block.
func (s *IndexSink) Write(ctx context.Context, recs []solar.IndexRecord) error {
	batch := NewIndexBatch()
	for _, r := range recs {
		batch.AddRecord(s.runID, r)
	}
	return flushIndexBatch(ctx, s.conn, s.table, batch)
}

func (s *IndexSink) Close() error {
	return s.conn.Close()
}

func flushIndexBatch(ctx context.Context, conn *ch.Client, tableFQN string, batch *IndexBatch) error {
	if batch.Len() == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (run_id, requested_date, date, source, ap, f107, ap_smoothed, f107_smoothed) VALUES", tableFQN)
	return conn.Do(ctx, ch.Query{
		Body:  query,
		Input: batch.Input(),
	})
}
