package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/catalog/domain"
	"github.com/shelfsense/backend/pkg/auth"
)

type fakeStores struct{ byID map[uint]*domain.Store }

func (f *fakeStores) Create(store *domain.Store) error { f.byID[store.ID] = store; return nil }
func (f *fakeStores) FindByID(id uint) (*domain.Store, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStores) FindAll(limit, offset int) ([]domain.Store, error) { return nil, nil }
func (f *fakeStores) Update(store *domain.Store) error                  { f.byID[store.ID] = store; return nil }
func (f *fakeStores) Delete(id uint) error                              { delete(f.byID, id); return nil }

type fakeShelves struct{ byID map[uint]*domain.Shelf }

func (f *fakeShelves) Create(shelf *domain.Shelf) error { f.byID[shelf.ID] = shelf; return nil }
func (f *fakeShelves) FindByID(id uint) (*domain.Shelf, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeShelves) FindAll(limit, offset int) ([]domain.Shelf, error) { return nil, nil }
func (f *fakeShelves) Update(shelf *domain.Shelf) error                  { f.byID[shelf.ID] = shelf; return nil }
func (f *fakeShelves) Delete(id uint) error                              { delete(f.byID, id); return nil }

type fakeStaff struct{ byID map[uint]*domain.Staff }

func (f *fakeStaff) Create(staff *domain.Staff) error { f.byID[staff.ID] = staff; return nil }
func (f *fakeStaff) FindByID(id uint) (*domain.Staff, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStaff) FindByEmail(email string) (*domain.Staff, error) {
	for _, s := range f.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStaff) FindAll(limit, offset int) ([]domain.Staff, error) { return nil, nil }
func (f *fakeStaff) Update(staff *domain.Staff) error                  { f.byID[staff.ID] = staff; return nil }
func (f *fakeStaff) Delete(id uint) error                              { delete(f.byID, id); return nil }

func newTestHandler() (*CatalogHandler, *fakeStores, *fakeShelves, *fakeStaff) {
	stores := &fakeStores{byID: map[uint]*domain.Store{}}
	shelves := &fakeShelves{byID: map[uint]*domain.Shelf{}}
	staff := &fakeStaff{byID: map[uint]*domain.Staff{}}
	handler := &CatalogHandler{stores: stores, shelves: shelves, staff: staff}
	return handler, stores, shelves, staff
}

func putJSON(t *testing.T, fn http.HandlerFunc, id string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(raw))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestUpdateStore_PartialUpdate(t *testing.T) {
	handler, stores, _, _ := newTestHandler()
	stores.byID[1] = &domain.Store{ID: 1, Name: "Downtown", Location: "5th Ave"}

	rec := putJSON(t, handler.UpdateStore, "1", map[string]string{"location": "Main St"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Downtown", stores.byID[1].Name)
	assert.Equal(t, "Main St", stores.byID[1].Location)
}

func TestUpdateStore_RejectsEmptyName(t *testing.T) {
	handler, stores, _, _ := newTestHandler()
	stores.byID[1] = &domain.Store{ID: 1, Name: "Downtown"}

	rec := putJSON(t, handler.UpdateStore, "1", map[string]string{"name": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Downtown", stores.byID[1].Name)
}

func TestUpdateStore_UnknownID(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	rec := putJSON(t, handler.UpdateStore, "7", map[string]string{"name": "X"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateShelf_MoveToKnownStore(t *testing.T) {
	handler, stores, shelves, _ := newTestHandler()
	stores.byID[2] = &domain.Store{ID: 2, Name: "Uptown"}
	shelves.byID[1] = &domain.Shelf{ID: 1, ShelfCode: "A-01", StoreID: 9, Capacity: 50}

	rec := putJSON(t, handler.UpdateShelf, "1", map[string]interface{}{
		"shelf_code": "B-02", "store_id": 2, "location_description": "back wall",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B-02", shelves.byID[1].ShelfCode)
	assert.Equal(t, uint(2), shelves.byID[1].StoreID)
	assert.Equal(t, "back wall", shelves.byID[1].LocationDescription)
	assert.Equal(t, 50, shelves.byID[1].Capacity)
}

func TestUpdateShelf_RejectsUnknownStore(t *testing.T) {
	handler, _, shelves, _ := newTestHandler()
	shelves.byID[1] = &domain.Shelf{ID: 1, ShelfCode: "A-01", StoreID: 9}

	rec := putJSON(t, handler.UpdateShelf, "1", map[string]interface{}{"store_id": 404})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, uint(9), shelves.byID[1].StoreID)
}

func TestUpdateStaff_RoleAndPassword(t *testing.T) {
	handler, _, _, staff := newTestHandler()
	oldHash, err := auth.HashPassword("old secret")
	require.NoError(t, err)
	staff.byID[1] = &domain.Staff{ID: 1, StoreID: 3, Name: "Ana", Role: domain.RoleStaff, Email: "ana@example.com", PasswordHash: oldHash}

	rec := putJSON(t, handler.UpdateStaff, "1", map[string]string{
		"role": domain.RoleManager, "password": "new secret",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleManager, staff.byID[1].Role)
	assert.True(t, auth.CheckPassword(staff.byID[1].PasswordHash, "new secret"))
	assert.False(t, auth.CheckPassword(staff.byID[1].PasswordHash, "old secret"))
}

func TestUpdateStaff_RejectsUnknownRole(t *testing.T) {
	handler, _, _, staff := newTestHandler()
	staff.byID[1] = &domain.Staff{ID: 1, Name: "Ana", Role: domain.RoleStaff}

	rec := putJSON(t, handler.UpdateStaff, "1", map[string]string{"role": "admin"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.RoleStaff, staff.byID[1].Role)
}

func TestLogin_VerifiesStoredHash(t *testing.T) {
	handler, _, _, staff := newTestHandler()
	hash, err := auth.HashPassword("right password")
	require.NoError(t, err)
	staff.byID[1] = &domain.Staff{ID: 1, Name: "Ana", Role: domain.RoleStaff, Email: "ana@example.com", PasswordHash: hash}

	login := func(password string) *httptest.ResponseRecorder {
		raw, err := json.Marshal(map[string]string{"email": "ana@example.com", "password": password})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/staff/login", bytes.NewReader(raw)))
		return rec
	}

	assert.Equal(t, http.StatusOK, login("right password").Code)
	assert.Equal(t, http.StatusUnauthorized, login("wrong password").Code)
}
