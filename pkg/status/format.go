package status

import (
	"fmt"
)

// FileFormatter defines how file operations and status should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a file operation status message
	FormatFileOperation(path string, status FileStatus, matches int) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file operation status message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path string, status FileStatus, matches int) string {
	switch status {
	case StatusPatched:
		return fmt.Sprintf("📝 Patched %s (%d node(s))", path, matches)
	case StatusCopied:
		return fmt.Sprintf("📋 Copied %s", path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("❔ Unknown %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
