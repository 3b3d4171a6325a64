package memories

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mynaturejourney/journey/pkg/api"
)

// Upload is a file staged for upload.
type Upload struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ContentTypeFor guesses a MIME type from the file extension.
func ContentTypeFor(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// FileUpload stages a local file. The file is opened only when uploaded.
func FileUpload(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to stat '%s': %w", path, err)
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("'%s' is a directory", path)
	}
	return Upload{
		Name:        filepath.Base(path),
		ContentType: ContentTypeFor(path),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

type photoEnvelope struct {
	Photo Photo `json:"photo"`
}

type photosEnvelope struct {
	Photos []Photo `json:"photos"`
}

func photosPath(memoryID int) string {
	return fmt.Sprintf("/memory/%d/photos", memoryID)
}

func photoPath(memoryID, photoID int) string {
	return fmt.Sprintf("/memory/%d/photos/%d", memoryID, photoID)
}

func uploadImage(ctx context.Context, c *api.Client, path string, u Upload, sortOrder *int, out any) error {
	r, err := u.Open()
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", u.Name, err)
	}
	defer r.Close()

	var fields map[string]string
	if sortOrder != nil {
		fields = map[string]string{"sort_order": strconv.Itoa(*sortOrder)}
	}
	ct := u.ContentType
	if ct == "" {
		ct = ContentTypeFor(u.Name)
	}
	return c.Upload(ctx, path, "image", api.File{Name: u.Name, Reader: r, ContentType: ct}, fields, out)
}

// UploadPhoto attaches a photo to a memory. sortOrder is optional.
func UploadPhoto(ctx context.Context, c *api.Client, memoryID int, u Upload, sortOrder *int) (Photo, error) {
	var env photoEnvelope
	if err := uploadImage(ctx, c, photosPath(memoryID), u, sortOrder, &env); err != nil {
		return Photo{}, err
	}
	return env.Photo, nil
}

func ListPhotos(ctx context.Context, c *api.Client, memoryID int) ([]Photo, error) {
	var env photosEnvelope
	if err := c.Get(ctx, photosPath(memoryID), nil, &env); err != nil {
		return nil, err
	}
	return env.Photos, nil
}

// PhotoURL carries the token as a query parameter.
func PhotoURL(c *api.Client, memoryID, photoID int) string {
	return c.AuthedURL(photoPath(memoryID, photoID))
}

// FetchPhoto downloads the photo bytes.
func FetchPhoto(ctx context.Context, c *api.Client, memoryID, photoID int) ([]byte, string, error) {
	return c.Fetch(ctx, PhotoURL(c, memoryID, photoID))
}

func DeletePhoto(ctx context.Context, c *api.Client, memoryID, photoID int) error {
	return c.Delete(ctx, photoPath(memoryID, photoID), nil)
}

func UpdatePhotoOrder(ctx context.Context, c *api.Client, memoryID, photoID, sortOrder int) (Photo, error) {
	var env photoEnvelope
	body := map[string]int{"sort_order": sortOrder}
	if err := c.Patch(ctx, photoPath(memoryID, photoID)+"/order", body, &env); err != nil {
		return Photo{}, err
	}
	return env.Photo, nil
}
