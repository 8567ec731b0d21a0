package flightaware

import "time"

// FlightsAPIResponse is the AeroAPI /flights/{ident} document
type FlightsAPIResponse struct {
	Flights []Flight `json:"flights"`
}

type Flight struct {
	Ident         string     `json:"ident"`
	IdentICAO     string     `json:"ident_icao"`
	FaFlightID    string     `json:"fa_flight_id"`
	Operator      string     `json:"operator"`
	Registration  string     `json:"registration"`
	AircraftType  string     `json:"aircraft_type"`
	Origin        *Airport   `json:"origin"`
	Destination   *Airport   `json:"destination"`
	Status        string     `json:"status"`
	ScheduledOut  *time.Time `json:"scheduled_out"`
	EstimatedIn   *time.Time `json:"estimated_in"`
	ProgressPct   *int       `json:"progress_percent"`
	Cancelled     bool       `json:"cancelled"`
	FiledAltitude *int       `json:"filed_altitude"`
}

type Airport struct {
	Code     string `json:"code"`
	CodeICAO string `json:"code_icao"`
	CodeIATA string `json:"code_iata"`
	Name     string `json:"name"`
	City     string `json:"city"`
}
