package fsutil

import (
	"path/filepath"
	"strings"
)

// binaryExtensions is the fast-path set: files with these extensions are
// rejected without opening them.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true,
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".bz2": true,
	".xz": true, ".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".class": true, ".jar": true, ".wasm": true, ".bin": true,
	".mp3": true, ".mp4": true, ".wav": true, ".ogg": true, ".avi": true,
	".mov": true, ".mkv": true, ".flac": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".sqlite": true, ".db": true,
}

// SystemBinaryDetector implements binary content detection using null byte detection.
// It checks for null bytes in the first N bytes of content, with special handling for UTF BOMs,
// and short-circuits on well-known binary file extensions.
type SystemBinaryDetector struct {
	SampleSize int // Number of bytes to sample for binary detection
}

// NewSystemBinaryDetector creates a new SystemBinaryDetector with the specified sample size.
func NewSystemBinaryDetector(sampleSize int) *SystemBinaryDetector {
	return &SystemBinaryDetector{
		SampleSize: sampleSize,
	}
}

// IsBinaryPath checks whether a path has a well-known binary extension.
// This is the cheap pre-check: it never touches the filesystem.
func (r *SystemBinaryDetector) IsBinaryPath(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryContent checks if content bytes contain binary data by looking for null bytes.
// It handles UTF-16 and UTF-32 BOMs specially to avoid false positives.
func (r *SystemBinaryDetector) IsBinaryContent(content []byte) bool {
	// Check for common text file BOMs (UTF-16, UTF-32)
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false // UTF-16 BOM - treat as text, skip null check
		}
	}
	if len(content) >= 4 {
		if (content[0] == 0xFF && content[1] == 0xFE && content[2] == 0x00 && content[3] == 0x00) ||
			(content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF) {
			return false // UTF-32 BOM - treat as text, skip null check
		}
	}

	// Check for null bytes in configured sample size
	sampleSize := min(len(content), r.SampleSize)
	for i := range sampleSize {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
