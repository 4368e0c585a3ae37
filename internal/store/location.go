package store

import "navigator/internal/nmea"

// Location is the latest known position and fix quality. GLL sentences
// update the position group, GSA sentences the fix/DOP group; the other
// group keeps its previous value.
type Location struct {
	Latitude  nmea.Coordinate `json:"latitude"`
	Longitude nmea.Coordinate `json:"longitude"`
	Time      nmea.Time       `json:"time"`
	Status    nmea.Status     `json:"status"`
	Mode      nmea.FaaMode    `json:"mode"`

	Fix  nmea.Fix `json:"fix"`
	PDOP float32  `json:"pdop"`
	HDOP float32  `json:"hdop"`
	VDOP float32  `json:"vdop"`
}

func (l *Location) applyPosition(p nmea.GeographicPosition) {
	l.Latitude = p.Latitude
	l.Longitude = p.Longitude
	l.Time = p.Time
	l.Status = p.Status
	l.Mode = p.Mode
}

func (l *Location) applyActive(a nmea.ActiveSatellites) {
	l.Fix = a.Fix
	l.PDOP = a.PDOP
	l.HDOP = a.HDOP
	l.VDOP = a.VDOP
}
