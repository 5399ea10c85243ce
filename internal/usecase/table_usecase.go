package usecase

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
	"github.com/akaJirt/restaurant-api/internal/qr"
)

type tableUseCase struct {
	tableRepo     domain.TableRepository
	publicBaseURL string
	log           *logrus.Logger
}

func NewTableUseCase(repo domain.TableRepository, publicBaseURL string, logger *logrus.Logger) domain.TableUseCase {
	return &tableUseCase{
		tableRepo:     repo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           logger,
	}
}

// CreateTable persists the table first, then generates the QR code from the
// assigned ID and saves it back. Any client-supplied qr_code is ignored.
func (uc *tableUseCase) CreateTable(input domain.TableInput) (*domain.Table, error) {
	input.TableNumber = strings.TrimSpace(input.TableNumber)
	if input.TableNumber == "" {
		return nil, errors.New("table number cannot be empty")
	}
	if !domain.IsValidTableType(input.TableType) {
		return nil, errors.New("invalid table type")
	}
	if input.Seats <= 0 {
		return nil, errors.New("seats must be positive")
	}
	status := input.Status
	if status == "" {
		status = domain.TableStatusAvailable
	}
	if !domain.IsValidTableStatus(status) {
		return nil, errors.New("invalid table status")
	}

	table := &domain.Table{
		TableNumber: input.TableNumber,
		TableType:   input.TableType,
		Seats:       input.Seats,
		Status:      status,
	}
	if input.IsAvailable != nil {
		table.IsAvailable = *input.IsAvailable
	}

	created, err := uc.tableRepo.CreateTable(table)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create table '%s': %v", input.TableNumber, err)
		return nil, err
	}

	code, err := qr.EncodeDataURL(qr.TableURL(uc.publicBaseURL, created.ID))
	if err != nil {
		uc.log.Errorf("Use Case: Failed to generate QR code for table %d: %v", created.ID, err)
		return nil, err
	}
	created.QRCode = code
	created, err = uc.tableRepo.UpdateTable(created)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to store QR code for table %d: %v", created.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Table created successfully with ID %d, Number: %s", created.ID, created.TableNumber)
	return created, nil
}

func (uc *tableUseCase) GetTableByID(id int64) (*domain.Table, error) {
	if id <= 0 {
		return nil, errors.New("invalid table ID")
	}
	return uc.tableRepo.GetTableByID(id)
}

// UpdateTable applies a partial update; the QR code is never patchable and
// keeps the value generated at creation.
func (uc *tableUseCase) UpdateTable(id int64, update domain.TableUpdate) (*domain.Table, error) {
	if id <= 0 {
		return nil, errors.New("invalid table ID")
	}
	table, err := uc.tableRepo.GetTableByID(id)
	if err != nil {
		return nil, err
	}

	if update.TableNumber != nil {
		number := strings.TrimSpace(*update.TableNumber)
		if number == "" {
			return nil, errors.New("table number cannot be empty")
		}
		table.TableNumber = number
	}
	if update.TableType != nil {
		if !domain.IsValidTableType(*update.TableType) {
			return nil, errors.New("invalid table type")
		}
		table.TableType = *update.TableType
	}
	if update.Seats != nil {
		if *update.Seats <= 0 {
			return nil, errors.New("seats must be positive")
		}
		table.Seats = *update.Seats
	}
	if update.Status != nil {
		if !domain.IsValidTableStatus(*update.Status) {
			return nil, errors.New("invalid table status")
		}
		table.Status = *update.Status
	}
	if update.IsAvailable != nil {
		table.IsAvailable = *update.IsAvailable
	}

	updated, err := uc.tableRepo.UpdateTable(table)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update table %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Table %d updated successfully", id)
	return updated, nil
}

func (uc *tableUseCase) ToggleAvailability(id int64) (*domain.Table, error) {
	if id <= 0 {
		return nil, errors.New("invalid table ID")
	}
	table, err := uc.tableRepo.GetTableByID(id)
	if err != nil {
		return nil, err
	}
	table.IsAvailable = !table.IsAvailable
	updated, err := uc.tableRepo.UpdateTable(table)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to toggle availability for table %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Table %d availability toggled to %t", id, updated.IsAvailable)
	return updated, nil
}

func (uc *tableUseCase) DeleteTable(id int64) error {
	if id <= 0 {
		return errors.New("invalid table ID")
	}
	uc.log.Infof("Use Case: Deleting table ID: %d", id)
	return uc.tableRepo.DeleteTable(id)
}

func (uc *tableUseCase) ListTables() ([]domain.Table, error) {
	return uc.tableRepo.ListTables()
}
