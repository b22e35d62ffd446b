package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var _ TableStore = (*PostgresTable)(nil)

type sheetRow struct {
	bun.BaseModel `bun:"table:sheet_rows,alias:sr"`

	ID       int64    `bun:"id,pk,autoincrement"`
	SheetID  string   `bun:"sheet_id,notnull"`
	Position int      `bun:"position,notnull"`
	Cells    []string `bun:"cells,type:jsonb,notnull"`
}

// PostgresTable stores one logical sheet as ordered rows of a shared table.
type PostgresTable struct {
	db      bun.IDB
	sheetID string
}

func NewPostgresTable(db bun.IDB, sheetID string) (*PostgresTable, error) {
	if db == nil {
		return nil, errors.New("nil bun db")
	}
	sheetID = strings.TrimSpace(sheetID)
	if sheetID == "" {
		return nil, errors.New("sheet id is required")
	}
	return &PostgresTable{db: db, sheetID: sheetID}, nil
}

// EnsureSchema creates the backing table and seeds the header row when the sheet is empty.
func (t *PostgresTable) EnsureSchema(ctx context.Context, headers []string) error {
	if _, err := t.db.NewCreateTable().
		Model((*sheetRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create sheet_rows: %w", err)
	}
	if _, err := t.db.NewCreateIndex().
		Model((*sheetRow)(nil)).
		Index("sheet_rows_sheet_position_idx").
		IfNotExists().
		Column("sheet_id", "position").
		Exec(ctx); err != nil {
		return fmt.Errorf("create sheet_rows index: %w", err)
	}

	exists, err := t.db.NewSelect().
		Model((*sheetRow)(nil)).
		Where("sheet_id = ?", t.sheetID).
		Where("position = 0").
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check header row: %w", err)
	}
	if exists || len(headers) == 0 {
		return nil
	}

	row := &sheetRow{SheetID: t.sheetID, Position: 0, Cells: append([]string(nil), headers...)}
	if _, err := t.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("seed header row: %w", err)
	}
	return nil
}

func (t *PostgresTable) GetRange(ctx context.Context, rng Range) ([][]string, error) {
	var rows []sheetRow
	q := t.db.NewSelect().
		Model(&rows).
		Where("sheet_id = ?", t.sheetID).
		Where("position >= ?", rng.FirstRow).
		Order("position ASC")
	if rng.LastRow >= 0 {
		q = q.Where("position <= ?", rng.LastRow)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select sheet rows: %w", err)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, sliceColumns(r.Cells, rng.FirstCol, rng.LastCol))
	}
	return out, nil
}

func (t *PostgresTable) AppendRow(ctx context.Context, values []string) error {
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var next int
		err := tx.NewSelect().
			Model((*sheetRow)(nil)).
			ColumnExpr("COALESCE(MAX(position) + 1, 0)").
			Where("sheet_id = ?", t.sheetID).
			Scan(ctx, &next)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		row := &sheetRow{SheetID: t.sheetID, Position: next, Cells: append([]string(nil), values...)}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert sheet row: %w", err)
		}
		return nil
	})
}

func (t *PostgresTable) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode sheet row: %w", err)
	}

	res, err := t.db.NewUpdate().
		Model((*sheetRow)(nil)).
		Set("cells = ?::jsonb", string(payload)).
		Where("sheet_id = ?", t.sheetID).
		Where("position = ?", rowIndex).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update sheet row: %w", err)
	}
	return expectAffected(res, rowIndex)
}

func (t *PostgresTable) DeleteRow(ctx context.Context, rowIndex int) error {
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*sheetRow)(nil)).
			Where("sheet_id = ?", t.sheetID).
			Where("position = ?", rowIndex).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete sheet row: %w", err)
		}
		if err := expectAffected(res, rowIndex); err != nil {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*sheetRow)(nil)).
			Set("position = position - 1").
			Where("sheet_id = ?", t.sheetID).
			Where("position > ?", rowIndex).
			Exec(ctx); err != nil {
			return fmt.Errorf("shift sheet rows: %w", err)
		}
		return nil
	})
}

func expectAffected(res sql.Result, rowIndex int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	return nil
}
