package car

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("car not found")

// HoldStatus marks a listing that is reserved while a sale is negotiated.
type HoldStatus string

const (
	HoldStatusActive HoldStatus = "active"
	HoldStatusHeld   HoldStatus = "held"
)

func ParseHoldStatus(raw string) (HoldStatus, bool) {
	switch HoldStatus(raw) {
	case HoldStatusActive, HoldStatusHeld:
		return HoldStatus(raw), true
	default:
		return "", false
	}
}

// Car is a full listing record. Features and specifications are opaque
// structured blobs; the store never inspects their shape.
type Car struct {
	ID                 int64           `json:"id"`
	Thumbnail          string          `json:"thumbnail"`
	Brand              string          `json:"brand"`
	Name               string          `json:"name"`
	Variant            string          `json:"variant"`
	KMDriven           int             `json:"km_driven"`
	FuelType           string          `json:"fuel_type"`
	BodyType           string          `json:"body_type"`
	TransmissionType   string          `json:"transmission_type"`
	Price              float64         `json:"price"`
	Location           string          `json:"location"`
	Insurance          string          `json:"insurance"`
	NoOfSeats          int             `json:"no_of_seats"`
	RegNumber          string          `json:"reg_number"`
	Ownership          int             `json:"ownership"`
	EngineDisplacement int             `json:"engine_displacement"`
	HighwayMileage     float64         `json:"highway_mileage"`
	MakeYear           int             `json:"make_year"`
	RegYear            int             `json:"reg_year"`
	Features           json.RawMessage `json:"features"`
	Specifications     json.RawMessage `json:"specifications"`
	Images             []string        `json:"images"`
	HoldStatus         HoldStatus      `json:"hold_status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Summary is the index row: everything except the heavyweight blob fields.
type Summary struct {
	ID                 int64      `json:"id"`
	Thumbnail          string     `json:"thumbnail"`
	Brand              string     `json:"brand"`
	Name               string     `json:"name"`
	Variant            string     `json:"variant"`
	KMDriven           int        `json:"km_driven"`
	FuelType           string     `json:"fuel_type"`
	BodyType           string     `json:"body_type"`
	TransmissionType   string     `json:"transmission_type"`
	Price              float64    `json:"price"`
	Location           string     `json:"location"`
	Insurance          string     `json:"insurance"`
	NoOfSeats          int        `json:"no_of_seats"`
	RegNumber          string     `json:"reg_number"`
	Ownership          int        `json:"ownership"`
	EngineDisplacement int        `json:"engine_displacement"`
	HighwayMileage     float64    `json:"highway_mileage"`
	MakeYear           int        `json:"make_year"`
	RegYear            int        `json:"reg_year"`
	HoldStatus         HoldStatus `json:"hold_status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateCarRequest deliberately has no required-field validation: a listing is
// drafted incrementally from the admin UI and absent fields stay zero-valued.
type CreateCarRequest struct {
	Thumbnail          string          `json:"thumbnail"`
	Brand              string          `json:"brand"`
	Name               string          `json:"name"`
	Variant            string          `json:"variant"`
	KMDriven           int             `json:"km_driven"`
	FuelType           string          `json:"fuel_type"`
	BodyType           string          `json:"body_type"`
	TransmissionType   string          `json:"transmission_type"`
	Price              float64         `json:"price"`
	Location           string          `json:"location"`
	Insurance          string          `json:"insurance"`
	NoOfSeats          int             `json:"no_of_seats"`
	RegNumber          string          `json:"reg_number"`
	Ownership          int             `json:"ownership"`
	EngineDisplacement int             `json:"engine_displacement"`
	HighwayMileage     float64         `json:"highway_mileage"`
	MakeYear           int             `json:"make_year"`
	RegYear            int             `json:"reg_year"`
	Features           json.RawMessage `json:"features"`
	Specifications     json.RawMessage `json:"specifications"`
	Images             []string        `json:"images"`
}
