package nmea

import "encoding/json"

// MaxActiveSatellites is the number of satellite ID slots in a GSA sentence
const MaxActiveSatellites = 12

// SatelliteIDs lists satellite IDs. It marshals to a JSON array of
// numbers rather than base64.
type SatelliteIDs []uint8

// MarshalJSON implements json.Marshaler
func (ids SatelliteIDs) MarshalJSON() ([]byte, error) {
	if ids == nil {
		return []byte("null"), nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return json.Marshal(out)
}

// ActiveSatellites is a GSA sentence: the satellites used for the fix and
// the resulting dilution of precision.
type ActiveSatellites struct {
	Selection SelectionMode `json:"selection"`
	Fix       Fix           `json:"fix"`
	// Satellites holds the IDs of the non-blank slots, in slot order
	Satellites SatelliteIDs `json:"satellites"`
	PDOP       float32      `json:"pdop"`
	HDOP       float32      `json:"hdop"`
	VDOP       float32      `json:"vdop"`
	SystemID   *uint8       `json:"system_id,omitempty"` // NMEA 4.10
}

func (ActiveSatellites) Type() string { return TypeGSA }
func (ActiveSatellites) sentence()    {}

// DecodeGSA decodes the field list of a GSA sentence
func DecodeGSA(data []byte) (ActiveSatellites, error) {
	r := newFieldReader(data)
	out := ActiveSatellites{
		Selection: field(r, DecodeSelectionMode),
		Fix:       field(r, DecodeFix),
	}

	for i := 0; i < MaxActiveSatellites; i++ {
		if id := optional(r, DecodeUint8); id != nil {
			out.Satellites = append(out.Satellites, *id)
		}
	}

	out.PDOP = field(r, DecodeFloat32)
	out.HDOP = field(r, DecodeFloat32)
	out.VDOP = field(r, DecodeFloat32)
	if r.more() {
		out.SystemID = optional(r, DecodeUint8)
	}

	if err := r.finish(); err != nil {
		return ActiveSatellites{}, err
	}
	return out, nil
}
