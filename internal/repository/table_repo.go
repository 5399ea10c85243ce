package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresTableRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresTableRepository(db *sql.DB, logger *logrus.Logger) domain.TableRepository {
	return &postgresTableRepository{
		db:  db,
		log: logger,
	}
}

const tableColumns = `id, table_number, table_type, seats, status, is_available, qr_code, created_at, updated_at`

func (r *postgresTableRepository) CreateTable(table *domain.Table) (*domain.Table, error) {
	query := `
        INSERT INTO tables (table_number, table_type, seats, status, is_available, qr_code)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		table.TableNumber,
		table.TableType,
		table.Seats,
		table.Status,
		table.IsAvailable,
		table.QRCode,
	).Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create duplicate table number '%s'", table.TableNumber)
			return nil, fmt.Errorf("table with number '%s' %w", table.TableNumber, domain.ErrDuplicate)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("invalid table data: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create table '%s': %v", table.TableNumber, err)
		return nil, fmt.Errorf("could not create table: %w", err)
	}
	r.log.Infof("Table created successfully with ID: %d, Number: %s", table.ID, table.TableNumber)
	return table, nil
}

func (r *postgresTableRepository) GetTableByID(id int64) (*domain.Table, error) {
	table := &domain.Table{}
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&table.ID,
		&table.TableNumber,
		&table.TableType,
		&table.Seats,
		&table.Status,
		&table.IsAvailable,
		&table.QRCode,
		&table.CreatedAt,
		&table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Table with ID %d not found", id)
			return nil, fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get table by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve table: %w", err)
	}
	return table, nil
}

func (r *postgresTableRepository) UpdateTable(table *domain.Table) (*domain.Table, error) {
	query := `
        UPDATE tables
        SET table_number = $1, table_type = $2, seats = $3, status = $4, is_available = $5,
            qr_code = $6, updated_at = NOW()
        WHERE id = $7
        RETURNING updated_at`
	err := r.db.QueryRow(query,
		table.TableNumber,
		table.TableType,
		table.Seats,
		table.Status,
		table.IsAvailable,
		table.QRCode,
		table.ID,
	).Scan(&table.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Table with ID %d not found for update", table.ID)
			return nil, fmt.Errorf("table with id %d %w", table.ID, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("table with number '%s' %w", table.TableNumber, domain.ErrDuplicate)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("invalid table data: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to update table ID %d: %v", table.ID, err)
		return nil, fmt.Errorf("could not update table: %w", err)
	}
	r.log.Infof("Table updated successfully with ID: %d", table.ID)
	return table, nil
}

func (r *postgresTableRepository) DeleteTable(id int64) error {
	result, err := r.db.Exec(`DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete table ID %d: %v", id, err)
		return fmt.Errorf("could not delete table: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting table ID %d: %v", id, err)
		return fmt.Errorf("could not confirm table deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent table ID %d", id)
		return fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Table deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresTableRepository) ListTables() ([]domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables ORDER BY id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list tables: %v", err)
		return nil, fmt.Errorf("could not list tables: %w", err)
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		var table domain.Table
		if err := rows.Scan(
			&table.ID,
			&table.TableNumber,
			&table.TableType,
			&table.Seats,
			&table.Status,
			&table.IsAvailable,
			&table.QRCode,
			&table.CreatedAt,
			&table.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan table row: %v", err)
			return nil, fmt.Errorf("error scanning table data: %w", err)
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during tables iteration: %v", err)
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	r.log.Infof("Retrieved %d tables", len(tables))
	return tables, nil
}
