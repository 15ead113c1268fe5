package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/ports"
)

// HotelHandler serves the hotel resource on top of the generic repository.
type HotelHandler struct {
	repo ports.Repository[*domain.Hotel]
}

func NewHotelHandler(repo ports.Repository[*domain.Hotel]) *HotelHandler {
	return &HotelHandler{repo: repo}
}

type roomRequest struct {
	Number int     `json:"number" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type hotelRequest struct {
	Name    string        `json:"name" validate:"required"`
	Address string        `json:"address"`
	Rooms   []roomRequest `json:"rooms" validate:"dive"`
}

// GetAll lists every hotel in insertion order.
//
// @Summary      List hotels
// @Tags         hotels
// @Produce      json
// @Success      200  {array}  domain.Hotel
// @Router       /hotels [get]
func (h *HotelHandler) GetAll(c echo.Context) error {
	hotels, err := h.repo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotels)
}

// GetByID returns a single hotel.
//
// @Summary      Get a hotel
// @Tags         hotels
// @Produce      json
// @Param        id   path      string  true  "Hotel id"
// @Success      200  {object}  domain.Hotel
// @Failure      404  {object}  map[string]string
// @Router       /hotels/{id} [get]
func (h *HotelHandler) GetByID(c echo.Context) error {
	hotel, err := h.repo.Read(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotel)
}

// Create persists a new hotel with its embedded rooms.
//
// @Summary      Create a hotel
// @Tags         hotels
// @Accept       json
// @Produce      json
// @Param        body  body      hotelRequest  true  "Hotel details"
// @Success      201   {object}  domain.Hotel
// @Failure      400   {object}  map[string]string
// @Router       /hotels [post]
func (h *HotelHandler) Create(c echo.Context) error {
	var req hotelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.repo.Create(c.Request().Context(), toHotel(&req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update merges the incoming fields into the stored hotel. Last writer wins.
//
// @Summary      Update a hotel
// @Tags         hotels
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Hotel id"
// @Param        body  body      hotelRequest  true  "Fields to update"
// @Success      200   {object}  domain.Hotel
// @Failure      404   {object}  map[string]string
// @Router       /hotels/{id} [put]
func (h *HotelHandler) Update(c echo.Context) error {
	var req hotelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	hotel, err := h.repo.Read(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.Address != "" {
		hotel.Address = req.Address
	}
	if req.Rooms != nil {
		hotel.Rooms = toRooms(req.Rooms)
	}

	updated, err := h.repo.Update(c.Request().Context(), hotel)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a hotel.
//
// @Summary      Delete a hotel
// @Tags         hotels
// @Param        id  path  string  true  "Hotel id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /hotels/{id} [delete]
func (h *HotelHandler) Delete(c echo.Context) error {
	if err := h.repo.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRooms lists the rooms embedded in a hotel.
//
// @Summary      List a hotel's rooms
// @Tags         hotels
// @Produce      json
// @Param        id   path     string  true  "Hotel id"
// @Success      200  {array}  domain.Room
// @Failure      404  {object}  map[string]string
// @Router       /hotels/{id}/rooms [get]
func (h *HotelHandler) GetRooms(c echo.Context) error {
	hotel, err := h.repo.Read(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	rooms := hotel.Rooms
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

func toHotel(req *hotelRequest) *domain.Hotel {
	return &domain.Hotel{
		Name:    req.Name,
		Address: req.Address,
		Rooms:   toRooms(req.Rooms),
	}
}

func toRooms(reqs []roomRequest) []domain.Room {
	rooms := make([]domain.Room, 0, len(reqs))
	for _, r := range reqs {
		rooms = append(rooms, domain.Room{Number: r.Number, Price: r.Price})
	}
	return rooms
}
