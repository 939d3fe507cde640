package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/fieldmap"
	"github.com/julianstephens/clientmgr/internal/models"
	"github.com/julianstephens/clientmgr/internal/storage"
)

var _ storage.ClientStore = (*Store)(nil)

type columnKind int

const (
	textColumn columnKind = iota
	numericColumn
	jsonColumn
)

func kindOf(column string) columnKind {
	switch column {
	case "price", "recurring":
		return numericColumn
	case "expenses", "timeline":
		return jsonColumn
	default:
		return textColumn
	}
}

// profileColumns are every client column except id, in field declaration order.
func profileColumns() []string {
	cols := fieldmap.Columns()
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != "id" {
			out = append(out, c)
		}
	}
	return out
}

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pq.QuoteIdentifier(c)
	}
	return out
}

// ListClients returns the owner's clients, newest first.
func (s *Store) ListClients(ctx context.Context, owner string) ([]models.Client, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	cols := append(fieldmap.Columns(), constants.OwnerColumn, constants.CreatedAtColumn, constants.UpdatedAtColumn)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC",
		strings.Join(quoteAll(cols), ", "),
		constants.ClientsTable, constants.OwnerColumn, constants.CreatedAtColumn)

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		c, err := fieldmap.DecodeClient(row)
		if err != nil {
			return nil, err
		}
		c.Persistence = models.RemotePersisted
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clients: %w", err)
	}
	return clients, nil
}

// scanRow reads one result row into a storage-convention map.
func scanRow(rows *sql.Rows, cols []string) (map[string]any, error) {
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch {
		case col == constants.CreatedAtColumn || col == constants.UpdatedAtColumn:
			dest[i] = new(time.Time)
		case kindOf(col) == numericColumn:
			dest[i] = new(decimal.Decimal)
		case kindOf(col) == jsonColumn:
			dest[i] = new([]byte)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		switch v := dest[i].(type) {
		case *time.Time:
			row[col] = *v
		case *decimal.Decimal:
			f, _ := v.Float64()
			row[col] = f
		case *[]byte:
			if len(*v) > 0 {
				row[col] = json.RawMessage(*v)
			}
		case *sql.NullString:
			if v.Valid && v.String != "" {
				row[col] = v.String
			}
		}
	}
	return row, nil
}

// columnValues converts an encoded client into query arguments, one per
// column, filling in the column defaults for omitted fields.
func columnValues(row map[string]any, cols []string) ([]any, error) {
	args := make([]any, len(cols))
	for i, col := range cols {
		v, present := row[col]
		switch kindOf(col) {
		case numericColumn:
			d := decimal.Zero
			if present {
				parsed, err := decimal.NewFromString(fmt.Sprint(v))
				if err != nil {
					return nil, fmt.Errorf("invalid %s: %w", col, err)
				}
				d = parsed
			}
			args[i] = d
		case jsonColumn:
			if !present || v == nil {
				args[i] = "[]"
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", col, err)
			}
			args[i] = string(data)
		default:
			if !present || v == nil {
				args[i] = ""
				continue
			}
			args[i] = fmt.Sprint(v)
		}
	}
	return args, nil
}

// SaveClient updates a client that came from this store and inserts any
// other client, letting the database assign its id.
func (s *Store) SaveClient(ctx context.Context, owner string, c *models.Client) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	c.Normalize()
	row, err := fieldmap.EncodeClient(*c)
	if err != nil {
		return err
	}
	cols := profileColumns()
	args, err := columnValues(row, cols)
	if err != nil {
		return err
	}

	if c.Persistence == models.RemotePersisted {
		return s.updateClient(ctx, owner, c, cols, args)
	}
	return s.insertClient(ctx, owner, c, cols, args)
}

func (s *Store) updateClient(ctx context.Context, owner string, c *models.Client, cols []string, args []any) error {
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1)
	}
	n := len(cols)
	query := fmt.Sprintf("UPDATE %s SET %s, %s = now() WHERE id = $%d AND %s = $%d",
		constants.ClientsTable, strings.Join(sets, ", "), constants.UpdatedAtColumn,
		n+1, constants.OwnerColumn, n+2)

	res, err := s.db.ExecContext(ctx, query, append(args, c.ID, owner)...)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, c.ID)
	}
	return nil
}

func (s *Store) insertClient(ctx context.Context, owner string, c *models.Client, cols []string, args []any) error {
	all := append(append([]string(nil), cols...), constants.OwnerColumn)
	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		constants.ClientsTable, strings.Join(quoteAll(all), ", "), strings.Join(placeholders, ", "))

	var id string
	if err := s.db.QueryRowContext(ctx, query, append(args, owner)...).Scan(&id); err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	c.ID = id
	c.Persistence = models.RemotePersisted
	return nil
}

// DeleteClient removes the owner's client. Unknown ids are ignored.
func (s *Store) DeleteClient(ctx context.Context, owner, id string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND %s = $2", constants.ClientsTable, constants.OwnerColumn)
	if _, err := s.db.ExecContext(ctx, query, id, owner); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
