package nmea

// GeographicPosition is a GLL sentence:
//
//	ddmm.mm,a,dddmm.mm,a,hhmmss.ss,a,m
type GeographicPosition struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	Time      Time       `json:"time"`
	Status    Status     `json:"status"`
	Mode      FaaMode    `json:"mode"`
}

func (GeographicPosition) Type() string { return TypeGLL }
func (GeographicPosition) sentence()    {}

// DecodeGLL decodes the field list of a GLL sentence
func DecodeGLL(data []byte) (GeographicPosition, error) {
	r := newFieldReader(data)
	out := GeographicPosition{
		Latitude:  field(r, DecodeCoordinate),
		Longitude: field(r, DecodeCoordinate),
		Time:      field(r, DecodeTime),
		Status:    field(r, DecodeStatus),
		Mode:      field(r, DecodeFaaMode),
	}
	if err := r.finish(); err != nil {
		return GeographicPosition{}, err
	}
	return out, nil
}
