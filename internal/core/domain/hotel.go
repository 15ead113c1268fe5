package domain

// Room is a single bookable unit inside a hotel.
type Room struct {
	Number   int     `json:"number" bson:"number"`
	Price    float64 `json:"price" bson:"price"`
	Occupied bool    `json:"occupied" bson:"occupied"`
}

// Hotel is the resource aggregate served by the hotel endpoints. Rooms are
// embedded; they have no life outside their hotel.
type Hotel struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	Rooms   []Room `json:"rooms" bson:"rooms"`
}

func (h *Hotel) EntityID() string { return h.ID }

func (h *Hotel) SetEntityID(id string) { h.ID = id }
