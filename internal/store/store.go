package store

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"navigator/internal/nmea"
)

// DefaultHistorySamples is the SNR history capacity used when none is given
const DefaultHistorySamples = 60

// Snapshot is a point in time copy of the store. It shares nothing with
// the store and may be kept or modified freely.
type Snapshot struct {
	Location   Location   `json:"location"`
	Satellites Satellites `json:"satellites"`
	Updated    time.Time  `json:"updated"`
}

// Store folds decoded messages into the Location and Satellites
// aggregates. Handle is meant for a single reader goroutine; Snapshot may
// be called concurrently from any number of consumers.
type Store struct {
	logger logrus.FieldLogger

	mu         sync.RWMutex
	location   Location
	inView     uint16
	satellites []nmea.Satellite
	history    history
	group      reassembly
	updated    time.Time
}

// New creates an empty store keeping at most historySamples mean SNR values
func New(logger logrus.FieldLogger, historySamples int) *Store {
	if historySamples <= 0 {
		historySamples = DefaultHistorySamples
	}
	return &Store{
		logger:  logger,
		history: history{capacity: historySamples},
	}
}

// Handle applies one decoded message
func (s *Store) Handle(msg nmea.Message) {
	switch v := msg.Sentence.(type) {
	case nmea.GeographicPosition:
		s.mu.Lock()
		s.location.applyPosition(v)
		s.updated = time.Now()
		s.mu.Unlock()

	case nmea.ActiveSatellites:
		s.mu.Lock()
		s.location.applyActive(v)
		s.updated = time.Now()
		s.mu.Unlock()

	case nmea.SatellitesInView:
		s.handleView(msg.Talker, v)

	case nmea.GroundSpeed:
		fields := logrus.Fields{
			"talker":      msg.Talker.String(),
			"speed_knots": v.SpeedKnots,
			"speed_kph":   v.SpeedKPH,
			"mode":        v.Mode.String(),
		}
		if v.CourseTrue != nil {
			fields["course_true"] = *v.CourseTrue
		}
		s.logger.WithFields(fields).Debug("Ground speed")

	case nmea.Text:
		s.logger.Infof("GPS MESSAGE: %s", v.Message)
	}
}

func (s *Store) handleView(talker nmea.Talker, v nmea.SatellitesInView) {
	s.mu.Lock()
	s.inView = v.InView
	complete, done, broken := s.group.push(v)
	var mean float32
	if done {
		s.satellites = complete
		mean = MeanSNR(complete)
		s.history.add(mean)
	}
	s.updated = time.Now()
	s.mu.Unlock()

	if broken != nil {
		entry := s.logger.WithFields(logrus.Fields{
			"talker":  talker.String(),
			"dropped": broken.Dropped,
		})
		if broken.Dropped > 0 {
			entry.Warn(broken.Error())
		} else {
			entry.Debug(broken.Error())
		}
	}
	if done {
		s.logger.WithFields(logrus.Fields{
			"talker":     talker.String(),
			"satellites": len(complete),
			"mean_snr":   mean,
		}).Debug("Satellite view updated")
	}
}

// Snapshot returns a copy of the current aggregates
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Location: s.location,
		Satellites: Satellites{
			InView:     s.inView,
			Satellites: copySatellites(s.satellites),
			SNRHistory: append([]float32(nil), s.history.samples...),
		},
		Updated: s.updated,
	}
}

func copySatellites(in []nmea.Satellite) []nmea.Satellite {
	if in == nil {
		return nil
	}
	out := make([]nmea.Satellite, len(in))
	for i, sat := range in {
		out[i] = nmea.Satellite{ID: sat.ID}
		if sat.Elevation != nil {
			e := *sat.Elevation
			out[i].Elevation = &e
		}
		if sat.Azimuth != nil {
			a := *sat.Azimuth
			out[i].Azimuth = &a
		}
		if sat.SNR != nil {
			n := *sat.SNR
			out[i].SNR = &n
		}
	}
	return out
}
