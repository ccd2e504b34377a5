package common

import (
	"log"
	"sync/atomic"
	"time"
)

// Stats holds atomic counters for a single tool run
type Stats struct {
	FilesDownloaded uint64 // Atomic counter for files fetched from remote sources
	BytesDownloaded uint64 // Atomic counter for bytes written to the cache
	RowsParsed      uint64 // Atomic counter for source table rows parsed
	RowsEmitted     uint64 // Atomic counter for rows returned or exported

	startTime time.Time
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// AddDownload records one completed download of n bytes
func (s *Stats) AddDownload(n int64) {
	atomic.AddUint64(&s.FilesDownloaded, 1)
	if n > 0 {
		atomic.AddUint64(&s.BytesDownloaded, uint64(n))
	}
}

// AddParsed atomically increments the parsed row counter
func (s *Stats) AddParsed(count int) {
	atomic.AddUint64(&s.RowsParsed, uint64(count))
}

// AddEmitted atomically increments the emitted row counter
func (s *Stats) AddEmitted(count int) {
	atomic.AddUint64(&s.RowsEmitted, uint64(count))
}

// Downloads atomically reads the download counters
func (s *Stats) Downloads() (files, bytes uint64) {
	return atomic.LoadUint64(&s.FilesDownloaded), atomic.LoadUint64(&s.BytesDownloaded)
}

// Parsed atomically reads the parsed row counter
func (s *Stats) Parsed() uint64 {
	return atomic.LoadUint64(&s.RowsParsed)
}

// Emitted atomically reads the emitted row counter
func (s *Stats) Emitted() uint64 {
	return atomic.LoadUint64(&s.RowsEmitted)
}

// Elapsed returns the time since NewStats or the last Reset
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// PrintSummary logs the final statistics banner
func (s *Stats) PrintSummary(title string) {
	files, bytes := s.Downloads()

	log.Println("=========================================================")
	log.Println(title)
	log.Println("=========================================================")
	log.Printf("Downloaded:  %d files (%d bytes)", files, bytes)
	log.Printf("Rows parsed: %d", s.Parsed())
	log.Printf("Rows out:    %d", s.Emitted())
	log.Printf("Elapsed:     %v", s.Elapsed().Round(time.Millisecond))
	log.Println("=========================================================")
}

// Reset resets all counters (useful for testing or restarting)
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.FilesDownloaded, 0)
	atomic.StoreUint64(&s.BytesDownloaded, 0)
	atomic.StoreUint64(&s.RowsParsed, 0)
	atomic.StoreUint64(&s.RowsEmitted, 0)
	s.startTime = time.Now()
}
