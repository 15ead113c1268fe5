package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

// stubHotelRepo is an in-memory ports.Repository[*domain.Hotel] preserving
// insertion order.
type stubHotelRepo struct {
	hotels []*domain.Hotel
	nextID int
}

func newStubHotelRepo() *stubHotelRepo {
	return &stubHotelRepo{}
}

func cloneHotel(h *domain.Hotel) *domain.Hotel {
	clone := *h
	clone.Rooms = append([]domain.Room(nil), h.Rooms...)
	return &clone
}

func (r *stubHotelRepo) Create(_ context.Context, hotel *domain.Hotel) (*domain.Hotel, error) {
	if hotel.EntityID() == "" {
		r.nextID++
		hotel.SetEntityID(fmt.Sprintf("hotel-%d", r.nextID))
	}
	for _, h := range r.hotels {
		if h.ID == hotel.ID {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.hotels = append(r.hotels, cloneHotel(hotel))
	return hotel, nil
}

func (r *stubHotelRepo) CreateAll(ctx context.Context, hotels []*domain.Hotel) ([]*domain.Hotel, error) {
	for _, h := range hotels {
		if _, err := r.Create(ctx, h); err != nil {
			return nil, err
		}
	}
	return hotels, nil
}

func (r *stubHotelRepo) Read(_ context.Context, id string) (*domain.Hotel, error) {
	for _, h := range r.hotels {
		if h.ID == id {
			return cloneHotel(h), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubHotelRepo) FindAll(_ context.Context) ([]*domain.Hotel, error) {
	out := make([]*domain.Hotel, 0, len(r.hotels))
	for _, h := range r.hotels {
		out = append(out, cloneHotel(h))
	}
	return out, nil
}

func (r *stubHotelRepo) Update(_ context.Context, hotel *domain.Hotel) (*domain.Hotel, error) {
	for i, h := range r.hotels {
		if h.ID == hotel.ID {
			r.hotels[i] = cloneHotel(hotel)
			return hotel, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubHotelRepo) UpdateAll(ctx context.Context, hotels []*domain.Hotel) ([]*domain.Hotel, error) {
	for _, h := range hotels {
		if _, err := r.Update(ctx, h); err != nil {
			return nil, err
		}
	}
	return hotels, nil
}

func (r *stubHotelRepo) Delete(ctx context.Context, hotel *domain.Hotel) error {
	return r.DeleteByID(ctx, hotel.ID)
}

func (r *stubHotelRepo) DeleteByID(_ context.Context, id string) error {
	for i, h := range r.hotels {
		if h.ID == id {
			r.hotels = append(r.hotels[:i], r.hotels[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func newHotelTestEnv() (*echo.Echo, *HotelHandler, *stubHotelRepo) {
	e := echo.New()
	e.Validator = NewValidator()
	repo := newStubHotelRepo()
	return e, NewHotelHandler(repo), repo
}

func TestHotelHandler_CreateAndRead(t *testing.T) {
	e, h, repo := newHotelTestEnv()

	c, rec := doJSON(e, http.MethodPost, "/hotels",
		`{"name":"Seaside","address":"1 Beach Rd","rooms":[{"number":101,"price":120.0}]}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created domain.Hotel
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an assigned id")
	}

	// read(create(e).id) equals create(e)
	stored, err := repo.Read(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if stored.Name != "Seaside" || len(stored.Rooms) != 1 || stored.Rooms[0].Number != 101 {
		t.Fatalf("stored hotel differs from created: %+v", stored)
	}
}

func TestHotelHandler_Create_Invalid(t *testing.T) {
	e, h, _ := newHotelTestEnv()

	c, _ := doJSON(e, http.MethodPost, "/hotels", `{"address":"no name"}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHotelHandler_GetAll_Empty(t *testing.T) {
	e, h, _ := newHotelTestEnv()

	c, rec := doJSON(e, http.MethodGet, "/hotels", "")
	if err := h.GetAll(c); err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestHotelHandler_GetByID_NotFound(t *testing.T) {
	e, h, _ := newHotelTestEnv()

	c, _ := doJSON(e, http.MethodGet, "/hotels/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.GetByID(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelHandler_Update(t *testing.T) {
	e, h, repo := newHotelTestEnv()
	seed, err := repo.Create(context.Background(), &domain.Hotel{Name: "Old", Address: "Somewhere"})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}

	c, rec := doJSON(e, http.MethodPut, "/hotels/"+seed.ID, `{"name":"New"}`)
	c.SetParamNames("id")
	c.SetParamValues(seed.ID)
	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stored, err := repo.Read(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if stored.Name != "New" || stored.Address != "Somewhere" {
		t.Fatalf("merge went wrong: %+v", stored)
	}
}

func TestHotelHandler_Delete(t *testing.T) {
	e, h, repo := newHotelTestEnv()
	seed, err := repo.Create(context.Background(), &domain.Hotel{Name: "Doomed"})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}

	c, rec := doJSON(e, http.MethodDelete, "/hotels/"+seed.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(seed.ID)
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := repo.Read(context.Background(), seed.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("hotel still present after delete")
	}
}

func TestHotelHandler_Delete_NotFound(t *testing.T) {
	e, h, _ := newHotelTestEnv()

	c, _ := doJSON(e, http.MethodDelete, "/hotels/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelHandler_GetRooms(t *testing.T) {
	e, h, repo := newHotelTestEnv()
	seed, err := repo.Create(context.Background(), &domain.Hotel{
		Name:  "Roomy",
		Rooms: []domain.Room{{Number: 1, Price: 50}, {Number: 2, Price: 75}},
	})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}

	c, rec := doJSON(e, http.MethodGet, "/hotels/"+seed.ID+"/rooms", "")
	c.SetParamNames("id")
	c.SetParamValues(seed.ID)
	if err := h.GetRooms(c); err != nil {
		t.Fatalf("GetRooms returned error: %v", err)
	}

	var rooms []domain.Room
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rooms) != 2 || rooms[1].Number != 2 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}
