package attachment

import (
	"fmt"
	"io"
	"mime/multipart"

	"alumni-api/internal/apperr"
	"alumni-api/internal/constants"

	"github.com/gabriel-vasile/mimetype"
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Upload is a validated photo waiting to be stored.
type Upload struct {
	ContentType string
	Extension   string
	Size        int64
	Body        io.Reader

	closer io.Closer
}

func (u *Upload) Close() error {
	if u == nil || u.closer == nil {
		return nil
	}
	return u.closer.Close()
}

// FromFileHeader opens a multipart file and checks its size and sniffed
// content type. Rejections are validation errors.
func FromFileHeader(fh *multipart.FileHeader) (*Upload, error) {
	if fh.Size > constants.MaxPhotoBytes {
		return nil, apperr.Validation(fmt.Sprintf("photo exceeds %d bytes", constants.MaxPhotoBytes))
	}
	if fh.Size == 0 {
		return nil, apperr.Validation("photo is empty")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindValidation, "photo could not be read")
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, apperr.Wrap(err, apperr.KindValidation, "photo could not be read")
	}
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		f.Close()
		return nil, apperr.Validation("photo must be a jpeg, png, webp or gif image")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, apperr.Wrap(err, apperr.KindValidation, "photo could not be read")
	}

	return &Upload{
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Size:        fh.Size,
		Body:        f,
		closer:      f,
	}, nil
}
