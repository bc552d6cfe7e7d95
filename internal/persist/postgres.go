package persist

import (
	"context"
	"fmt"
	"math"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "entities"

// DB is the subset of *pgxpool.Pool the PostgreSQL handler needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// copyColumns lists the table columns in the order copyRow emits values.
var copyColumns = []string{"position", "entity_id", "name", "kind", "model", "age", "light_type"}

// PostgresHandler stores records in a single table. Each Save replaces the
// table contents inside one transaction, so readers never observe a
// half-written set.
type PostgresHandler struct {
	db    DB
	table string
}

// NewPostgresHandler returns a handler writing to table (DefaultTable if empty).
func NewPostgresHandler(db DB, table string) *PostgresHandler {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresHandler{db: db, table: table}
}

var _ Handler = (*PostgresHandler)(nil)

// Format implements Handler.
func (h *PostgresHandler) Format() string { return FormatPostgres }

func (h *PostgresHandler) ident() string {
	return pgx.Identifier{h.table}.Sanitize()
}

// EnsureSchema creates the table if it does not exist.
func (h *PostgresHandler) EnsureSchema(ctx context.Context) error {
	_, err := h.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	position   integer PRIMARY KEY,
	entity_id  text    NOT NULL,
	name       text    NOT NULL,
	kind       text    NOT NULL,
	model      text,
	age        integer CHECK (age >= 0),
	light_type text
)`, h.ident()))
	if err != nil {
		return entity.IOError("postgres.schema", h.table, err)
	}
	return nil
}

// Save replaces the table contents with entities, in input order, using the
// COPY protocol.
func (h *PostgresHandler) Save(ctx context.Context, entities ...entity.Entity) error {
	rows := make([][]any, 0, len(entities))
	for i, e := range entities {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if e.Age > math.MaxInt32 {
			return entity.ParseErrorf("postgres.save", 0, "record %d: age %d exceeds column range", i, e.Age)
		}
		rows = append(rows, copyRow(i, e))
	}

	tx, err := h.db.Begin(ctx)
	if err != nil {
		return entity.IOError("postgres.save", h.table, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, "DELETE FROM "+h.ident()); err != nil {
		return entity.IOError("postgres.save", h.table, fmt.Errorf("clear table: %w", err))
	}

	if len(rows) > 0 {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{h.table}, copyColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return entity.IOError("postgres.save", h.table, fmt.Errorf("copy rows: %w", err))
		}
		if int(n) != len(rows) {
			return entity.IOError("postgres.save", h.table, fmt.Errorf("copied %d rows, expected %d", n, len(rows)))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return entity.IOError("postgres.save", h.table, fmt.Errorf("commit transaction: %w", err))
	}

	logging.FromContext(ctx).Debug("entities saved", "format", FormatPostgres, "table", h.table, "count", len(entities))
	return nil
}

// Load returns every stored record in insertion order.
func (h *PostgresHandler) Load(ctx context.Context) ([]entity.Entity, error) {
	rows, err := h.db.Query(ctx,
		"SELECT entity_id, name, kind, model, age, light_type FROM "+h.ident()+" ORDER BY position")
	if err != nil {
		return nil, entity.IOError("postgres.load", h.table, err)
	}

	out, err := pgx.CollectRows(rows, scanEntity)
	if err != nil {
		if entity.IsKind(err, entity.KindParse) {
			return nil, err
		}
		return nil, entity.IOError("postgres.load", h.table, err)
	}

	logging.FromContext(ctx).Debug("entities loaded", "format", FormatPostgres, "table", h.table, "count", len(out))
	return out, nil
}

// storedRow mirrors one table row.
type storedRow struct {
	ID        string
	Name      string
	Kind      string
	Model     pgtype.Text
	Age       pgtype.Int4
	LightType pgtype.Text
}

func scanEntity(row pgx.CollectableRow) (entity.Entity, error) {
	var r storedRow
	if err := row.Scan(&r.ID, &r.Name, &r.Kind, &r.Model, &r.Age, &r.LightType); err != nil {
		return entity.Entity{}, err
	}
	return r.toEntity()
}

// copyRow converts e into values matching copyColumns. Columns that do not
// belong to the record's kind are NULL.
func copyRow(position int, e entity.Entity) []any {
	var (
		model pgtype.Text
		age   pgtype.Int4
		light pgtype.Text
	)
	switch e.Kind {
	case entity.KindVehicle:
		model = pgtype.Text{String: e.Model, Valid: true}
	case entity.KindPedestrian:
		age = pgtype.Int4{Int32: int32(e.Age), Valid: true}
	case entity.KindLightStateAction:
		light = pgtype.Text{String: e.LightType, Valid: true}
	}
	return []any{int32(position), e.ID, e.Name, string(e.Kind), model, age, light}
}

func (r storedRow) toEntity() (entity.Entity, error) {
	kind, err := entity.ParseKind(r.Kind)
	if err != nil {
		return entity.Entity{}, entity.ParseErrorf("postgres.load", 0, "entity %q: %v", r.ID, err)
	}

	switch kind {
	case entity.KindVehicle:
		if !r.Model.Valid {
			return entity.Entity{}, entity.ParseErrorf("postgres.load", 0, "vehicle %q: model is NULL", r.ID)
		}
		return entity.NewVehicle(r.ID, r.Name, r.Model.String), nil
	case entity.KindPedestrian:
		if !r.Age.Valid || r.Age.Int32 < 0 {
			return entity.Entity{}, entity.ParseErrorf("postgres.load", 0, "pedestrian %q: invalid age", r.ID)
		}
		return entity.NewPedestrian(r.ID, r.Name, int(r.Age.Int32)), nil
	default:
		if !r.LightType.Valid {
			return entity.Entity{}, entity.ParseErrorf("postgres.load", 0, "light state action %q: light type is NULL", r.ID)
		}
		return entity.NewLightStateAction(r.ID, r.Name, r.LightType.String), nil
	}
}
