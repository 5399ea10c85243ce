package domain

import "time"

type TableType string

const (
	TableTypeIndoor  TableType = "indoor"
	TableTypeOutdoor TableType = "outdoor"
	TableTypeVIP     TableType = "vip"
)

func IsValidTableType(t TableType) bool {
	switch t {
	case TableTypeIndoor, TableTypeOutdoor, TableTypeVIP:
		return true
	default:
		return false
	}
}

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

func IsValidTableStatus(s TableStatus) bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	default:
		return false
	}
}

type Table struct {
	ID          int64       `json:"id"`
	TableNumber string      `json:"table_number"`
	TableType   TableType   `json:"table_type"`
	Seats       int         `json:"seats"`
	Status      TableStatus `json:"status"`
	IsAvailable bool        `json:"is_available"`
	QRCode      string      `json:"qr_code,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type TableRepository interface {
	CreateTable(table *Table) (*Table, error)
	GetTableByID(id int64) (*Table, error)
	UpdateTable(table *Table) (*Table, error)
	DeleteTable(id int64) error
	ListTables() ([]Table, error)
}

type TableInput struct {
	TableNumber string      `json:"table_number"`
	TableType   TableType   `json:"table_type"`
	Seats       int         `json:"seats"`
	Status      TableStatus `json:"status"`
	IsAvailable *bool       `json:"is_available"`
}

type TableUpdate struct {
	TableNumber *string      `json:"table_number"`
	TableType   *TableType   `json:"table_type"`
	Seats       *int         `json:"seats"`
	Status      *TableStatus `json:"status"`
	IsAvailable *bool        `json:"is_available"`
}

type TableUseCase interface {
	CreateTable(input TableInput) (*Table, error)
	GetTableByID(id int64) (*Table, error)
	UpdateTable(id int64, update TableUpdate) (*Table, error)
	ToggleAvailability(id int64) (*Table, error)
	DeleteTable(id int64) error
	ListTables() ([]Table, error)
}
