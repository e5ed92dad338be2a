package util

const (
	DateFormat = "2006-01-02"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeVideo     = "video/"
	MimeTextPlain = "text/plain; charset=utf-8"
)

var AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}

// fallback targets for not-found responses
const (
	BackFeed     = "/"
	BackCourses  = "/courses"
	BackPractice = "/practice"
)
