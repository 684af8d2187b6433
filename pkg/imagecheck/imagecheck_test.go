package imagecheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     error
	}{
		{name: "small jpeg", size: 200 * 1024, contentType: "image/jpeg"},
		{name: "exactly 10MB", size: MaxSize, contentType: "image/png"},
		{name: "11MB", size: 11 * 1024 * 1024, contentType: "image/jpeg", wantErr: ErrTooLarge},
		{name: "pdf", size: 1024, contentType: "application/pdf", wantErr: ErrNotImage},
		{name: "missing type", size: 1024, contentType: "", wantErr: ErrNotImage},
		{name: "empty", size: 0, contentType: "image/jpeg", wantErr: ErrEmpty},
		{name: "uppercase type", size: 1024, contentType: "IMAGE/WEBP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.name, tt.size, tt.contentType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var fe *FileError
			assert.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.name, fe.Name)
		})
	}
}

func TestCheckCount(t *testing.T) {
	assert.NoError(t, CheckCount(0, 10))
	assert.NoError(t, CheckCount(7, 3))
	assert.ErrorIs(t, CheckCount(8, 3), ErrTooManyFiles)
	assert.ErrorIs(t, CheckCount(0, 11), ErrTooManyFiles)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("room.JPG", "image/jpeg"))
	assert.Equal(t, ".png", Extension("blob", "image/png"))
	assert.Equal(t, ".webp", Extension("", "image/webp"))
	assert.Equal(t, "", Extension("noext", "image/x-unknown"))
}
