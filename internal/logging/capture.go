package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	capturePrefix = "nmea_"
	captureSuffix = ".log"
	dateLayout    = "2006-01-02"
)

// CaptureLog records raw sentences to one file per day
// (nmea_YYYY-MM-DD.log). When the date changes the previous day's file is
// gzip compressed in the background.
type CaptureLog struct {
	dir    string
	useUTC bool
	logger logrus.FieldLogger
	now    func() time.Time

	// checkInterval paces rotation checks in Start
	checkInterval time.Duration
	// retentionDays is how long Start keeps old capture files, 0 keeps all
	retentionDays int

	mu          sync.Mutex
	currentFile *os.File
	currentDate string
	compressing sync.WaitGroup
}

// NewCaptureLog creates dir if needed and opens today's capture file
func NewCaptureLog(dir string, useUTC bool, logger logrus.FieldLogger) (*CaptureLog, error) {
	return newCaptureLog(dir, useUTC, logger, time.Now)
}

func newCaptureLog(dir string, useUTC bool, logger logrus.FieldLogger, now func() time.Time) (*CaptureLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	c := &CaptureLog{
		dir:           dir,
		useUTC:        useUTC,
		logger:        logger,
		now:           now,
		checkInterval: time.Minute,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.rotate(c.today()); err != nil {
		return nil, fmt.Errorf("failed to initialize capture file: %w", err)
	}
	return c, nil
}

func (c *CaptureLog) today() string {
	now := c.now()
	if c.useUTC {
		now = now.UTC()
	}
	return now.Format(dateLayout)
}

func (c *CaptureLog) path(date string) string {
	return filepath.Join(c.dir, capturePrefix+date+captureSuffix)
}

// SetRetention makes Start remove capture files older than days. Zero or
// less keeps every file.
func (c *CaptureLog) SetRetention(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retentionDays = days
}

// Start rotates idle capture files at midnight until ctx is done. Writes
// rotate on their own; this only matters when the source goes quiet.
// With a retention set, old files are removed once at start and again
// after every rotation.
func (c *CaptureLog) Start(ctx context.Context) {
	c.mu.Lock()
	cleanedDate := c.currentDate
	c.mu.Unlock()
	c.cleanup()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if err := c.checkRotation(); err != nil {
				c.logger.WithError(err).Error("Failed to rotate capture file")
			}
			date := c.currentDate
			c.mu.Unlock()

			// Rotation may also have happened in WriteLine
			if date != cleanedDate {
				cleanedDate = date
				c.cleanup()
			}
		}
	}
}

func (c *CaptureLog) cleanup() {
	c.mu.Lock()
	days := c.retentionDays
	c.mu.Unlock()
	if days <= 0 {
		return
	}

	removed, err := c.CleanupOld(days)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to clean up capture files")
		return
	}
	if removed > 0 {
		c.logger.WithFields(logrus.Fields{
			"count":          removed,
			"retention_days": days,
		}).Info("Removed old capture files")
	}
}

// checkRotation must be called with mu held. A closed log stays closed.
func (c *CaptureLog) checkRotation() error {
	date := c.today()
	if c.currentFile == nil || date == c.currentDate {
		return nil
	}
	c.logger.WithFields(logrus.Fields{
		"old_date": c.currentDate,
		"new_date": date,
	}).Info("Rotating capture file")
	return c.rotate(date)
}

// rotate must be called with mu held
func (c *CaptureLog) rotate(date string) error {
	if c.currentFile != nil {
		if err := c.currentFile.Close(); err != nil {
			c.logger.WithError(err).Error("Failed to close capture file")
		}
		c.currentFile = nil

		old := c.currentDate
		c.compressing.Add(1)
		go func() {
			defer c.compressing.Done()
			c.compress(old)
		}()
	}

	name := c.path(date)
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open capture file %s: %w", name, err)
	}
	c.currentFile = file
	c.currentDate = date

	c.logger.WithField("file", name).Debug("Opened capture file")
	return nil
}

// compress replaces a day's capture file with its gzip copy
func (c *CaptureLog) compress(date string) {
	src := c.path(date)
	dst := src + ".gz"
	log := c.logger.WithFields(logrus.Fields{
		"source": src,
		"target": dst,
	})

	in, err := os.Open(src)
	if err != nil {
		log.WithError(err).Error("Failed to open capture file for compression")
		return
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		log.WithError(err).Error("Failed to create compressed file")
		return
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	gz.Name = filepath.Base(src)
	gz.ModTime = c.now()

	if _, err := io.Copy(gz, in); err != nil {
		log.WithError(err).Error("Failed to compress capture file")
		return
	}
	if err := gz.Close(); err != nil {
		log.WithError(err).Error("Failed to close gzip writer")
		return
	}
	if err := out.Close(); err != nil {
		log.WithError(err).Error("Failed to close compressed file")
		return
	}
	if err := os.Remove(src); err != nil {
		log.WithError(err).Error("Failed to remove compressed capture file")
		return
	}

	log.Info("Capture file compressed")
}

// WriteLine appends one raw sentence followed by a newline
func (c *CaptureLog) WriteLine(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentFile == nil {
		return fmt.Errorf("capture log is closed")
	}
	if err := c.checkRotation(); err != nil {
		return err
	}

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := c.currentFile.Write(buf); err != nil {
		return fmt.Errorf("failed to write capture file: %w", err)
	}
	return nil
}

// CurrentFile returns the path of the file being written
func (c *CaptureLog) CurrentFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentDate == "" {
		return ""
	}
	return c.path(c.currentDate)
}

// Files lists every capture file in the directory, compressed or not
func (c *CaptureLog) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(c.dir, capturePrefix+"*"+captureSuffix+"*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list capture files: %w", err)
	}
	return files, nil
}

// CleanupOld removes capture files not modified in the last maxDays days
// and returns how many were removed. The current file is kept.
func (c *CaptureLog) CleanupOld(maxDays int) (int, error) {
	if maxDays <= 0 {
		return 0, fmt.Errorf("maxDays must be positive")
	}

	files, err := c.Files()
	if err != nil {
		return 0, err
	}

	current := c.CurrentFile()
	cutoff := c.now().AddDate(0, 0, -maxDays)

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			c.logger.WithError(err).WithField("file", file).Warn("Failed to stat capture file")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			c.logger.WithError(err).WithField("file", file).Error("Failed to remove old capture file")
			continue
		}
		removed++
	}

	c.logger.WithField("count", removed).Debug("Cleaned up old capture files")
	return removed, nil
}

// Close closes the current file and waits for pending compressions
func (c *CaptureLog) Close() error {
	c.mu.Lock()
	var err error
	if c.currentFile != nil {
		err = c.currentFile.Close()
		c.currentFile = nil
	}
	c.mu.Unlock()

	c.compressing.Wait()
	return err
}
