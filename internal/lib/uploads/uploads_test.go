package uploads

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		kind    Kind
		wantErr bool
	}{
		{
			name:   "valid photo",
			header: header("id.jpg", "image/jpeg", 1<<20),
			kind:   KindPhoto,
		},
		{
			name:    "photo too large",
			header:  header("id.jpg", "image/jpeg", 3<<20),
			kind:    KindPhoto,
			wantErr: true,
		},
		{
			name:   "screenshot allows 3MB",
			header: header("proof.png", "image/png", 3<<20),
			kind:   KindScreenshot,
		},
		{
			name:   "document accepts pdf",
			header: header("cni.pdf", "application/pdf", 4<<20),
			kind:   KindDocument,
		},
		{
			name:   "document accepts image",
			header: header("cni.webp", "image/webp", 1<<20),
			kind:   KindDocument,
		},
		{
			name:    "document too large",
			header:  header("cni.pdf", "application/pdf", 6<<20),
			kind:    KindDocument,
			wantErr: true,
		},
		{
			name:    "wrong extension",
			header:  header("script.exe", "application/octet-stream", 100),
			kind:    KindPhoto,
			wantErr: true,
		},
		{
			name:    "extension ok but mime mismatch",
			header:  header("fake.png", "application/pdf", 100),
			kind:    KindPhoto,
			wantErr: true,
		},
		{
			name:   "missing content type is tolerated",
			header: header("id.png", "", 100),
			kind:   KindPhoto,
		},
		{
			name:    "uppercase extension accepted",
			header:  header("ID.JPG", "image/jpeg", 100),
			kind:    KindPhoto,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.header, tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
