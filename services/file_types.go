package services

import "strings"

const (
	FileTypeImage    = "image"
	FileTypeVideo    = "video"
	FileTypePDF      = "pdf"
	FileTypeDocument = "document"
	FileTypeOther    = "other"
)

var documentMimeTypes = map[string]bool{
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/vnd.oasis.opendocument.text":                                   true,
	"application/vnd.oasis.opendocument.spreadsheet":                            true,
	"application/vnd.oasis.opendocument.presentation":                           true,
	"application/rtf": true,
	"text/plain":      true,
	"text/csv":        true,
}

// ClassifyMimeType maps a MIME type to a coarse display category. Total
// over all strings; unrecognized input falls through to "other".
func ClassifyMimeType(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mt, "video/"):
		return FileTypeVideo
	case mt == "application/pdf":
		return FileTypePDF
	case documentMimeTypes[mt]:
		return FileTypeDocument
	default:
		return FileTypeOther
	}
}

var fileTypeIcons = map[string]string{
	FileTypeImage:    "image",
	FileTypeVideo:    "film",
	FileTypePDF:      "file-pdf",
	FileTypeDocument: "file-text",
	FileTypeOther:    "file",
}

func FileTypeIcon(fileType string) string {
	if icon, ok := fileTypeIcons[fileType]; ok {
		return icon
	}
	return fileTypeIcons[FileTypeOther]
}
