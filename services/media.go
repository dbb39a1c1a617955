package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vivemedellin/vivemedellin/models"
)

const (
	MaxPostContentLength = 1000
	MaxImageSize         = 5 * 1024 * 1024
	MaxFileSize          = 10 * 1024 * 1024

	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MediaError describes why an attachment was rejected.
type MediaError struct {
	Message string
}

func (e *MediaError) Error() string { return e.Message }

type mediaRule struct {
	allowed  map[string]bool
	maxSize  int64
	emptyMsg string
	typeMsg  string
	sizeMsg  string
}

var (
	imageRule = mediaRule{
		allowed:  map[string]bool{MimeJPEG: true, MimePNG: true},
		maxSize:  MaxImageSize,
		emptyMsg: "La imagen adjunta está vacía",
		typeMsg:  "Solo se permiten imágenes JPG o PNG",
		sizeMsg:  "La imagen no puede superar los 5 MB",
	}
	fileRule = mediaRule{
		allowed:  map[string]bool{MimePDF: true, MimeDOCX: true},
		maxSize:  MaxFileSize,
		emptyMsg: "El archivo adjunto está vacío",
		typeMsg:  "Solo se permiten archivos PDF o DOCX",
		sizeMsg:  "El archivo no puede superar los 10 MB",
	}
)

func (r mediaRule) validate(m *models.GroupPostMedia) error {
	if strings.TrimSpace(m.URL) == "" {
		return &MediaError{Message: r.emptyMsg}
	}
	if !r.allowed[strings.ToLower(strings.TrimSpace(m.MimeType))] {
		return &MediaError{Message: r.typeMsg}
	}
	if m.Size <= 0 || m.Size > r.maxSize {
		return &MediaError{Message: r.sizeMsg}
	}
	return nil
}

// ValidateImage checks an image attachment against the JPG/PNG 5 MB limits.
func ValidateImage(m *models.GroupPostMedia) error { return imageRule.validate(m) }

// ValidateFile checks a document attachment against the PDF/DOCX 10 MB limits.
func ValidateFile(m *models.GroupPostMedia) error { return fileRule.validate(m) }

// CanonicalLink parses raw as an absolute URL and returns its normalised form.
func CanonicalLink(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && (u.Scheme == "http" || u.Scheme == "https") {
		u.Path = "/"
	}
	return u.String(), nil
}
