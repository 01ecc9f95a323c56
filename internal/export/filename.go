package export

import "time"

const (
	fileNamePrefix = "memo_"
	fileNameLayout = "20060102_150405"
)

// DefaultFileName suggests memo_YYYYMMDD_HHMMSS.<ext> for ts in local time.
// Names are not unique within the same second.
func DefaultFileName(f Format, ts time.Time) string {
	return fileNamePrefix + ts.Local().Format(fileNameLayout) + "." + f.Extension()
}
