package nmea

// Checksum returns the XOR of every byte of a sentence body (the bytes
// between '$' and '*').
func Checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum ^= b
	}
	return sum
}

// legacyChecksum is the variant emitted by some receivers that also leave
// the byte 'I' out of the sum.
func legacyChecksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		switch b {
		case '$', '*', 'I':
			continue
		}
		sum ^= b
	}
	return sum
}

// VerifyChecksum reports whether want matches either checksum variant of
// body. A single bit flip anywhere in body is rejected under both.
func VerifyChecksum(body []byte, want byte) bool {
	return Checksum(body) == want || legacyChecksum(body) == want
}
