package postgres

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/andresuchdata/inventory-health/internal/repository"
	"github.com/jmoiron/sqlx"
)

const insertBatchSize = 500

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type voucherMappingRow struct {
	ItemName    string `db:"item_name"`
	VoucherType string `db:"voucher_type"`
}

type voucherRepository struct {
	db    *DB
	table string
}

// NewVoucherRepository reads item -> voucher type pairs from table, which
// must have item_name and voucher_type columns.
func NewVoucherRepository(db *DB, table string) (repository.VoucherRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid voucher table name %q", table)
	}
	return &voucherRepository{db: db, table: table}, nil
}

func (r *voucherRepository) ListMappings(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT item_name, voucher_type
		FROM %s
		WHERE item_name IS NOT NULL AND voucher_type IS NOT NULL
		ORDER BY item_name
	`, r.table)

	var rows []voucherMappingRow
	err := r.db.WithConn(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing voucher mappings: %w", err)
	}

	mappings := make(map[string]string, len(rows))
	for _, row := range rows {
		if _, ok := mappings[row.ItemName]; ok {
			continue
		}
		mappings[row.ItemName] = row.VoucherType
	}
	return mappings, nil
}

func (r *voucherRepository) ReplaceMappings(ctx context.Context, mappings map[string]string) (int, error) {
	rows := mappingRows(mappings)
	deleteQuery := fmt.Sprintf(`DELETE FROM %s`, r.table)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (item_name, voucher_type)
		VALUES (:item_name, :voucher_type)
	`, r.table)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery); err != nil {
			return fmt.Errorf("error clearing voucher mappings: %w", err)
		}
		for start := 0; start < len(rows); start += insertBatchSize {
			end := min(start+insertBatchSize, len(rows))
			if _, err := tx.NamedExecContext(ctx, insertQuery, rows[start:end]); err != nil {
				return fmt.Errorf("error inserting voucher mappings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// mappingRows drops blank pairs and orders rows by item name.
func mappingRows(mappings map[string]string) []voucherMappingRow {
	rows := make([]voucherMappingRow, 0, len(mappings))
	for item, vt := range mappings {
		if item == "" || vt == "" {
			continue
		}
		rows = append(rows, voucherMappingRow{ItemName: item, VoucherType: vt})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemName < rows[j].ItemName })
	return rows
}
