package nmea

// FaaMode is the positioning system mode indicator appended to NMEA 2.3+
// sentences.
type FaaMode int

const (
	FaaModeNotValid FaaMode = iota
	FaaModeAutonomous
	FaaModeCaution
	FaaModeDifferential
	FaaModeEstimated
	FaaModeRTKFloat
	FaaModeManual
	FaaModePrecise
	FaaModeRTKInteger
	FaaModeSimulated
	FaaModeUnsafe
)

var faaModeNames = [...]string{
	FaaModeNotValid:     "NotValid",
	FaaModeAutonomous:   "Autonomous",
	FaaModeCaution:      "Caution",
	FaaModeDifferential: "Differential",
	FaaModeEstimated:    "Estimated",
	FaaModeRTKFloat:     "RTKFloat",
	FaaModeManual:       "Manual",
	FaaModePrecise:      "Precise",
	FaaModeRTKInteger:   "RTKInteger",
	FaaModeSimulated:    "Simulated",
	FaaModeUnsafe:       "Unsafe",
}

func (m FaaMode) String() string {
	if m < 0 || int(m) >= len(faaModeNames) {
		return "FaaMode(?)"
	}
	return faaModeNames[m]
}

// MarshalText implements encoding.TextMarshaler
func (m FaaMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DecodeFaaMode decodes the single character mode indicator. 'C' and 'U'
// are Quectel extensions.
func DecodeFaaMode(c *Cursor) (FaaMode, error) {
	offset := c.Offset()
	b, err := c.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'A':
		return FaaModeAutonomous, nil
	case 'C':
		return FaaModeCaution, nil
	case 'D':
		return FaaModeDifferential, nil
	case 'E':
		return FaaModeEstimated, nil
	case 'F':
		return FaaModeRTKFloat, nil
	case 'M':
		return FaaModeManual, nil
	case 'N':
		return FaaModeNotValid, nil
	case 'P':
		return FaaModePrecise, nil
	case 'R':
		return FaaModeRTKInteger, nil
	case 'S':
		return FaaModeSimulated, nil
	case 'U':
		return FaaModeUnsafe, nil
	default:
		return 0, &UnexpectedCharError{Char: b, Offset: offset}
	}
}

// Status is the data validity flag of a position report
type Status int

const (
	DataInvalid Status = iota
	DataValid
)

func (s Status) String() string {
	if s == DataValid {
		return "DataValid"
	}
	return "DataInvalid"
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DecodeStatus decodes 'A' (valid) or 'V' (invalid)
func DecodeStatus(c *Cursor) (Status, error) {
	offset := c.Offset()
	b, err := c.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'A':
		return DataValid, nil
	case 'V':
		return DataInvalid, nil
	default:
		return 0, &UnexpectedCharError{Char: b, Offset: offset}
	}
}

// SelectionMode tells whether the receiver picks 2D/3D operation itself
type SelectionMode int

const (
	SelectionManual SelectionMode = iota
	SelectionAutomatic
)

func (m SelectionMode) String() string {
	if m == SelectionAutomatic {
		return "Automatic"
	}
	return "Manual"
}

// MarshalText implements encoding.TextMarshaler
func (m SelectionMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DecodeSelectionMode decodes 'A' (automatic) or 'M' (manual)
func DecodeSelectionMode(c *Cursor) (SelectionMode, error) {
	offset := c.Offset()
	b, err := c.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'A':
		return SelectionAutomatic, nil
	case 'M':
		return SelectionManual, nil
	default:
		return 0, &UnexpectedCharError{Char: b, Offset: offset}
	}
}

// Fix is the dimensionality of the current position fix
type Fix int

const (
	NoFix Fix = iota
	Fix2D
	Fix3D
)

func (f Fix) String() string {
	switch f {
	case Fix2D:
		return "Fix2D"
	case Fix3D:
		return "Fix3D"
	default:
		return "NoFix"
	}
}

// MarshalText implements encoding.TextMarshaler
func (f Fix) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// DecodeFix decodes '1' (none), '2' (2D) or '3' (3D)
func DecodeFix(c *Cursor) (Fix, error) {
	offset := c.Offset()
	b, err := c.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case '1':
		return NoFix, nil
	case '2':
		return Fix2D, nil
	case '3':
		return Fix3D, nil
	default:
		return 0, &UnexpectedCharError{Char: b, Offset: offset}
	}
}
