package nmea

// Sentence type codes with a decoder.
const (
	TypeGLL = "GLL"
	TypeGSA = "GSA"
	TypeGSV = "GSV"
	TypeVTG = "VTG"
	TypeTXT = "TXT"
)

// Talker is the two letter source of a sentence, e.g. "GP" for GPS
type Talker [2]byte

func (t Talker) String() string {
	return string(t[:])
}

// MarshalText implements encoding.TextMarshaler
func (t Talker) MarshalText() ([]byte, error) {
	return t[:], nil
}

// Sentence is one of GeographicPosition, ActiveSatellites,
// SatellitesInView, GroundSpeed or Text.
type Sentence interface {
	// Type returns the three letter sentence type code
	Type() string
	sentence()
}

// Message is one successfully framed and decoded line
type Message struct {
	Talker   Talker
	Sentence Sentence
}

// Type returns the sentence type code of the message
func (m Message) Type() string {
	if m.Sentence == nil {
		return ""
	}
	return m.Sentence.Type()
}
