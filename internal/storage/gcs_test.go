package storage

import (
	"testing"

	"github.com/tradebridge/marketplace-backend/internal/model"
)

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		want        model.AttachmentType
		wantErr     bool
	}{
		{"jpeg", "image/jpeg", 1024, model.AttachmentTypeImage, false},
		{"png", "image/png", 1024, model.AttachmentTypeImage, false},
		{"gif", "image/gif", 1024, model.AttachmentTypeImage, false},
		{"webp", "image/webp", 1024, model.AttachmentTypeImage, false},
		{"pdf", "application/pdf", 1024, model.AttachmentTypeFile, false},
		{"at the limit", "image/png", MaxAttachmentSize, model.AttachmentTypeImage, false},
		{"over the limit", "image/png", MaxAttachmentSize + 1, "", true},
		{"empty file", "image/png", 0, "", true},
		{"negative size", "image/png", -1, "", true},
		{"executable", "application/x-msdownload", 1024, "", true},
		{"svg is not allowed", "image/svg+xml", 1024, "", true},
		{"plain text", "text/plain; charset=utf-8", 1024, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAttachment(tt.contentType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
