package nmea

import "bytes"

// MaxSatellitesPerGSV is the number of satellite blocks one GSV sentence
// can carry
const MaxSatellitesPerGSV = 4

// Satellite is one satellite block of a GSV sentence. Nil fields were
// left blank by the receiver.
type Satellite struct {
	ID uint8 `json:"id"`
	// Elevation in degrees, -90 to 90
	Elevation *int8 `json:"elevation,omitempty"`
	// Azimuth in degrees from true north, 0 to 359
	Azimuth *uint16 `json:"azimuth,omitempty"`
	// SNR in dB, 0 to 99
	SNR *uint8 `json:"snr,omitempty"`
}

// SatellitesInView is a GSV sentence. A full view is split across
// TotalInGroup sentences numbered 1..TotalInGroup.
type SatellitesInView struct {
	TotalInGroup   uint8       `json:"total_in_group"`
	SentenceNumber uint8       `json:"sentence_number"`
	InView         uint16      `json:"in_view"`
	Satellites     []Satellite `json:"satellites"`
	SignalID       *uint8      `json:"signal_id,omitempty"` // NMEA 4.10
}

func (SatellitesInView) Type() string { return TypeGSV }
func (SatellitesInView) sentence()    {}

// DecodeGSV decodes the field list of a GSV sentence
func DecodeGSV(data []byte) (SatellitesInView, error) {
	r := newFieldReader(data)
	out := SatellitesInView{
		TotalInGroup:   field(r, DecodeUint8),
		SentenceNumber: field(r, DecodeUint8),
		InView:         field(r, DecodeUint16),
	}

	// The block count is implied by the field count. Receivers pad the
	// last sentence of a group with blank blocks, which are skipped. One
	// field past whole blocks is the NMEA 4.10 signal ID.
	blocks := MaxSatellitesPerGSV
	n := bytes.Count(data, []byte{Separator}) + 1
	signal := n > 3 && (n-3)%4 == 1
	if signal && (n-3)/4 < blocks {
		blocks = (n - 3) / 4
	}
	for i := 0; i < blocks && r.more(); i++ {
		id := optional(r, DecodeUint8)
		sat := Satellite{
			Elevation: optional(r, DecodeInt8),
			Azimuth:   optional(r, DecodeUint16),
			SNR:       optional(r, DecodeUint8),
		}
		if id == nil {
			if sat.Elevation != nil || sat.Azimuth != nil || sat.SNR != nil {
				r.fail(ErrIncomplete)
			}
			continue
		}
		sat.ID = *id
		out.Satellites = append(out.Satellites, sat)
	}
	if signal && r.more() {
		out.SignalID = optional(r, DecodeUint8)
	}

	if err := r.finish(); err != nil {
		return SatellitesInView{}, err
	}
	return out, nil
}
