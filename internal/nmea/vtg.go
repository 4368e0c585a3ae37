package nmea

// GroundSpeed is a VTG sentence: course and speed over ground.
//
//	x.x,T,x.x,M,x.x,N,x.x,K,m
type GroundSpeed struct {
	CourseTrue     *float32 `json:"course_true,omitempty"`
	CourseMagnetic *float32 `json:"course_magnetic,omitempty"`
	SpeedKnots     float32  `json:"speed_knots"`
	SpeedKPH       float32  `json:"speed_kph"`
	Mode           FaaMode  `json:"mode"`
}

func (GroundSpeed) Type() string { return TypeVTG }
func (GroundSpeed) sentence()    {}

// DecodeVTG decodes the field list of a VTG sentence. The courses may be
// blank, the speeds may not.
func DecodeVTG(data []byte) (GroundSpeed, error) {
	r := newFieldReader(data)

	var out GroundSpeed
	out.CourseTrue = optional(r, DecodeFloat32)
	r.literal('T')
	out.CourseMagnetic = optional(r, DecodeFloat32)
	r.literal('M')
	out.SpeedKnots = field(r, DecodeFloat32)
	r.literal('N')
	out.SpeedKPH = field(r, DecodeFloat32)
	r.literal('K')
	out.Mode = field(r, DecodeFaaMode)

	if err := r.finish(); err != nil {
		return GroundSpeed{}, err
	}
	return out, nil
}
