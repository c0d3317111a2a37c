package largefiles

import (
	"sort"
	"sync"
	"time"
)

// DefaultThreshold is the size from which a file counts as large (100 MiB).
const DefaultThreshold int64 = 100 * 1024 * 1024

// Record is a single file path and its size.
type Record struct {
	// Path is the file path as produced by the walk.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// Report holds the outcome of a large-file scan.
type Report struct {
	// Files are the large files, largest first.
	Files []Record `json:"files"`
	// Threshold is the minimum size in bytes a file needed to be reported.
	Threshold int64 `json:"threshold"`
	// Scanned is the number of files examined.
	Scanned int64 `json:"scanned"`
	// ScannedBytes is the cumulative size of the examined files.
	ScannedBytes int64 `json:"scanned_bytes"`
	// Errors is the number of files skipped because they could not be stat'ed.
	Errors int64 `json:"errors"`
	// Elapsed is the duration of the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// TotalBytes returns the summed size of the reported files.
func (r *Report) TotalBytes() int64 {
	var total int64

	for _, f := range r.Files {
		total += f.Size
	}

	return total
}

// collector accumulates records; the mutex lets the progress reporter read
// the counters while the walk is running.
type collector struct {
	mu           sync.Mutex
	threshold    int64
	files        []Record
	scanned      int64
	scannedBytes int64
	errors       int64
}

func newCollector(threshold int64) *collector {
	return &collector{threshold: threshold}
}

// add records a stat'ed file and keeps it if it reaches the threshold.
func (c *collector) add(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scanned++
	c.scannedBytes += size

	if size >= c.threshold {
		c.files = append(c.files, Record{Path: path, Size: size})
	}
}

func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors++
}

// progress returns the number of files and bytes seen so far.
func (c *collector) progress() (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.scanned, c.scannedBytes
}

// finalize sorts the kept records largest first and trims them to limit (0 = all).
// Equal sizes are ordered by path so the output does not depend on walk order.
func (c *collector) finalize(limit int) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]Record, len(c.files))
	copy(files, c.files)

	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}

		return files[i].Path < files[j].Path
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	return &Report{
		Files:        files,
		Threshold:    c.threshold,
		Scanned:      c.scanned,
		ScannedBytes: c.scannedBytes,
		Errors:       c.errors,
	}
}
