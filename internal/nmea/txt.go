package nmea

// Text is a TXT sentence, a free form message from the receiver
type Text struct {
	TotalSentences uint8  `json:"total_sentences"`
	SentenceNumber uint8  `json:"sentence_number"`
	Identifier     uint8  `json:"identifier"`
	Message        string `json:"message"`
}

func (Text) Type() string { return TypeTXT }
func (Text) sentence()    {}

// DecodeTXT decodes the field list of a TXT sentence
func DecodeTXT(data []byte) (Text, error) {
	r := newFieldReader(data)
	out := Text{
		TotalSentences: field(r, DecodeUint8),
		SentenceNumber: field(r, DecodeUint8),
		Identifier:     field(r, DecodeUint8),
		Message:        field(r, DecodeString),
	}
	if err := r.finish(); err != nil {
		return Text{}, err
	}
	return out, nil
}
