package store

import (
	"fmt"

	"navigator/internal/nmea"
)

// Satellites is the latest completed view of the sky
type Satellites struct {
	// InView is the count reported by the most recent GSV sentence, even
	// when its group has not completed yet
	InView uint16 `json:"in_view"`
	// Satellites is replaced only when a whole GSV group has arrived
	Satellites []nmea.Satellite `json:"satellites"`
	// SNRHistory holds the mean SNR of each completed group, oldest first
	SNRHistory []float32 `json:"snr_history"`
}

// Connected returns the number of satellites currently reporting an SNR
func (s Satellites) Connected() int {
	n := 0
	for _, sat := range s.Satellites {
		if sat.SNR != nil {
			n++
		}
	}
	return n
}

// MeanSNR averages the SNR of the satellites that report one. It is 0
// when none does.
func MeanSNR(sats []nmea.Satellite) float32 {
	var sum float32
	n := 0
	for _, sat := range sats {
		if sat.SNR == nil {
			continue
		}
		sum += float32(*sat.SNR)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

// BrokenGroupError reports a GSV group that was abandoned before its last
// sentence arrived, or a sentence that did not belong to any group.
type BrokenGroupError struct {
	Expected uint8 // total of the group in progress, 0 if none
	LastSeen uint8 // last sentence number accepted into it
	Total    uint8 // total_in_group of the offending sentence
	Number   uint8 // sentence_number of the offending sentence
	Dropped  int   // satellites discarded with the partial group
}

func (e *BrokenGroupError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("store: GSV sentence %d/%d outside of a group", e.Number, e.Total)
	}
	return fmt.Sprintf("store: GSV group broken after %d/%d by sentence %d/%d, %d satellites dropped",
		e.LastSeen, e.Expected, e.Number, e.Total, e.Dropped)
}

// reassembly collects the sentences of one GSV group. A group starts with
// sentence 1, continues with lastSeen+1 under the same total and completes
// with sentence number == total.
type reassembly struct {
	expected uint8
	lastSeen uint8
	received []nmea.Satellite
}

func (r *reassembly) reset() {
	r.expected = 0
	r.lastSeen = 0
	r.received = nil
}

// push feeds one GSV sentence. It returns the satellites of the group when
// v completes it. A partial group that v cannot extend is discarded and
// reported; v may then start a new group.
func (r *reassembly) push(v nmea.SatellitesInView) (complete []nmea.Satellite, done bool, broken *BrokenGroupError) {
	if r.expected != 0 && (v.TotalInGroup != r.expected || v.SentenceNumber != r.lastSeen+1) {
		broken = &BrokenGroupError{
			Expected: r.expected,
			LastSeen: r.lastSeen,
			Total:    v.TotalInGroup,
			Number:   v.SentenceNumber,
			Dropped:  len(r.received),
		}
		r.reset()
	}

	if r.expected == 0 {
		if v.SentenceNumber != 1 || v.TotalInGroup == 0 {
			if broken == nil {
				broken = &BrokenGroupError{Total: v.TotalInGroup, Number: v.SentenceNumber}
			}
			return nil, false, broken
		}
		r.expected = v.TotalInGroup
		r.received = make([]nmea.Satellite, 0, int(v.TotalInGroup)*nmea.MaxSatellitesPerGSV)
	}

	r.received = append(r.received, v.Satellites...)
	r.lastSeen = v.SentenceNumber

	if r.lastSeen == r.expected {
		complete = r.received
		r.reset()
		return complete, true, broken
	}
	return nil, false, broken
}

// history is a bounded FIFO of samples
type history struct {
	capacity int
	samples  []float32
}

func (h *history) add(v float32) {
	if h.capacity <= 0 {
		return
	}
	if len(h.samples) == h.capacity {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}
	h.samples = append(h.samples, v)
}
