package domain

import "time"

// Expertise is a graduate's field of qualification.
type Expertise string

const (
	ExpertiseAgronomy   Expertise = "agronomy"
	ExpertiseVeterinary Expertise = "veterinary"
	ExpertiseBoth       Expertise = "both"
)

// Covers returns true if the expertise qualifies for the given service type.
func (e Expertise) Covers(svc ServiceType) bool {
	return e == ExpertiseBoth || string(e) == string(svc)
}

// Graduate is an agricultural expert available for assignment.
// Records are created and maintained by the web side; the USSD core
// only ever reads them.
type Graduate struct {
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Expertise Expertise `json:"expertise"`
	Location  Location  `json:"location"`
	Available bool      `json:"available"`
	// Point coordinates are carried for a future proximity ranking;
	// the widening search does not consult them.
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
