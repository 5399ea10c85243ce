package delivery

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type fakeTableUseCase struct {
	tables map[int64]domain.Table
}

func (f *fakeTableUseCase) CreateTable(input domain.TableInput) (*domain.Table, error) {
	table := domain.Table{
		ID:          int64(len(f.tables) + 1),
		TableNumber: input.TableNumber,
		TableType:   input.TableType,
		Seats:       input.Seats,
	}
	f.tables[table.ID] = table
	return &table, nil
}

func (f *fakeTableUseCase) GetTableByID(id int64) (*domain.Table, error) {
	table, ok := f.tables[id]
	if !ok {
		return nil, fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
	}
	return &table, nil
}

func (f *fakeTableUseCase) UpdateTable(id int64, update domain.TableUpdate) (*domain.Table, error) {
	table, ok := f.tables[id]
	if !ok {
		return nil, fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
	}
	if update.IsAvailable != nil {
		table.IsAvailable = *update.IsAvailable
	}
	f.tables[id] = table
	return &table, nil
}

func (f *fakeTableUseCase) ToggleAvailability(id int64) (*domain.Table, error) {
	table, ok := f.tables[id]
	if !ok {
		return nil, fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
	}
	table.IsAvailable = !table.IsAvailable
	f.tables[id] = table
	return &table, nil
}

func (f *fakeTableUseCase) DeleteTable(id int64) error {
	if _, ok := f.tables[id]; !ok {
		return fmt.Errorf("table with id %d %w", id, domain.ErrNotFound)
	}
	delete(f.tables, id)
	return nil
}

func (f *fakeTableUseCase) ListTables() ([]domain.Table, error) {
	tables := make([]domain.Table, 0, len(f.tables))
	for _, t := range f.tables {
		tables = append(tables, t)
	}
	return tables, nil
}

func newTableTestRouter(uc domain.TableUseCase, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	router := gin.New()
	handler := NewTableHandler(uc, log)
	handler.RegisterRoutes(router.Group("/api/v1"), authAs(user))
	return router
}

func TestGetTableAvailabilityGate(t *testing.T) {
	uc := &fakeTableUseCase{tables: map[int64]domain.Table{
		1: {ID: 1, TableNumber: "T-1", TableType: domain.TableTypeIndoor, Seats: 4, IsAvailable: false},
		2: {ID: 2, TableNumber: "T-2", TableType: domain.TableTypeIndoor, Seats: 2, IsAvailable: true},
	}}

	tests := []struct {
		name     string
		user     *domain.User
		tableID  int64
		wantCode int
	}{
		{name: "client blocked on unavailable table", user: &domain.User{ID: 7, Role: domain.RoleClient}, tableID: 1, wantCode: http.StatusForbidden},
		{name: "client allowed on available table", user: &domain.User{ID: 7, Role: domain.RoleClient}, tableID: 2, wantCode: http.StatusOK},
		{name: "staff allowed on unavailable table", user: &domain.User{ID: 2, Role: domain.RoleStaff}, tableID: 1, wantCode: http.StatusOK},
		{name: "admin allowed on unavailable table", user: &domain.User{ID: 1, Role: domain.RoleAdmin}, tableID: 1, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTableTestRouter(uc, tt.user)
			rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tables/%d", tt.tableID), "")

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTableAdminRoutes(t *testing.T) {
	uc := &fakeTableUseCase{tables: map[int64]domain.Table{
		1: {ID: 1, TableNumber: "T-1", TableType: domain.TableTypeIndoor, Seats: 4},
	}}

	client := &domain.User{ID: 7, Role: domain.RoleClient}
	clientRouter := newTableTestRouter(uc, client)

	rec := doRequest(t, clientRouter, http.MethodPost, "/api/v1/tables",
		`{"table_number": "T-9", "table_type": "indoor", "seats": 2}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for client creating table, got %d", rec.Code)
	}

	rec = doRequest(t, clientRouter, http.MethodPatch, "/api/v1/tables/1/availability", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for client toggling availability, got %d", rec.Code)
	}

	staff := &domain.User{ID: 2, Role: domain.RoleStaff}
	staffRouter := newTableTestRouter(uc, staff)

	rec = doRequest(t, staffRouter, http.MethodPatch, "/api/v1/tables/1/availability", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff toggling availability, got %d: %s", rec.Code, rec.Body.String())
	}
	if !uc.tables[1].IsAvailable {
		t.Error("availability not toggled")
	}

	rec = doRequest(t, staffRouter, http.MethodDelete, "/api/v1/tables/1", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for staff deleting table, got %d", rec.Code)
	}
}
