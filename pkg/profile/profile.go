package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mynaturejourney/journey/pkg/api"
)

// ErrNoProfile means the user has not created a profile yet.
var ErrNoProfile = errors.New("profile not found")

type Profile struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	Name           string `json:"name"`
	Bio            string `json:"bio,omitempty"`
	Location       string `json:"location,omitempty"`
	Website        string `json:"website,omitempty"`
	AvatarFileName string `json:"avatar_file_name,omitempty"`
	AvatarMimeType string `json:"avatar_mime_type,omitempty"`
	AvatarFileSize int64  `json:"avatar_file_size,omitempty"`
	CoverFileName  string `json:"cover_file_name,omitempty"`
	CoverMimeType  string `json:"cover_mime_type,omitempty"`
	CoverFileSize  int64  `json:"cover_file_size,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

func (p Profile) HasAvatar() bool { return p.AvatarFileName != "" }
func (p Profile) HasCover() bool  { return p.CoverFileName != "" }

// Input is the body of create, update and upsert. Update ignores empty fields.
type Input struct {
	Name     string `json:"name,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Stats are computed by the server.
type Stats struct {
	TotalTrips   int     `json:"totalTrips"`
	ParksVisited int     `json:"parksVisited"`
	TotalExpense float64 `json:"totalExpense"`
	Provinces    int     `json:"provinces"`
}

// Image is an avatar or cover file.
type Image struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

func decodeProfile(call func(out any) error) (Profile, error) {
	var env api.DataEnvelope[Profile]
	if err := call(&env); err != nil {
		return Profile{}, err
	}
	return env.Data, nil
}

// GetMyProfile returns ErrNoProfile (wrapping the api error) on 404.
func GetMyProfile(ctx context.Context, c *api.Client) (Profile, error) {
	p, err := decodeProfile(func(out any) error { return c.Get(ctx, "/profile", nil, out) })
	if api.IsNotFound(err) {
		return Profile{}, fmt.Errorf("%w: %w", ErrNoProfile, err)
	}
	return p, err
}

// LoadOrInit returns the caller's profile, or an empty one named defaultName
// when none exists yet. exists tells the two apart.
func LoadOrInit(ctx context.Context, c *api.Client, defaultName string) (p Profile, exists bool, err error) {
	p, err = GetMyProfile(ctx, c)
	if errors.Is(err, ErrNoProfile) {
		return Profile{Name: defaultName}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

func GetProfileByUser(ctx context.Context, c *api.Client, userID int) (Profile, error) {
	return decodeProfile(func(out any) error {
		return c.Get(ctx, fmt.Sprintf("/profile/user/%d", userID), nil, out)
	})
}

func CreateProfile(ctx context.Context, c *api.Client, in Input) (Profile, error) {
	if in.Name == "" {
		return Profile{}, &api.Error{Kind: api.KindValidation, Message: "name is required"}
	}
	return decodeProfile(func(out any) error { return c.Post(ctx, "/profile", in, out) })
}

func UpdateProfile(ctx context.Context, c *api.Client, in Input) (Profile, error) {
	return decodeProfile(func(out any) error { return c.Put(ctx, "/profile", in, out) })
}

// UpsertProfile creates the profile or replaces it.
func UpsertProfile(ctx context.Context, c *api.Client, in Input) (Profile, error) {
	if in.Name == "" {
		return Profile{}, &api.Error{Kind: api.KindValidation, Message: "name is required"}
	}
	return decodeProfile(func(out any) error { return c.Put(ctx, "/profile/upsert", in, out) })
}

func DeleteProfile(ctx context.Context, c *api.Client) error {
	return c.Delete(ctx, "/profile", nil)
}

func UploadAvatar(ctx context.Context, c *api.Client, img Image) (Profile, error) {
	return uploadImage(ctx, c, "/profile/avatar", "avatar", img)
}

func UploadCover(ctx context.Context, c *api.Client, img Image) (Profile, error) {
	return uploadImage(ctx, c, "/profile/cover", "cover", img)
}

func uploadImage(ctx context.Context, c *api.Client, path, field string, img Image) (Profile, error) {
	return decodeProfile(func(out any) error {
		return c.Upload(ctx, path, field, api.File{Name: img.Name, Reader: img.Reader, ContentType: img.ContentType}, nil, out)
	})
}

func DeleteAvatar(ctx context.Context, c *api.Client) error {
	return c.Delete(ctx, "/profile/avatar", nil)
}

func DeleteCover(ctx context.Context, c *api.Client) error {
	return c.Delete(ctx, "/profile/cover", nil)
}

// AvatarURL is served without authentication.
func AvatarURL(c *api.Client, userID int) string {
	return c.URL(fmt.Sprintf("/profile/user/%d/avatar", userID), nil)
}

func CoverURL(c *api.Client, userID int) string {
	return c.URL(fmt.Sprintf("/profile/user/%d/cover", userID), nil)
}

func GetStats(ctx context.Context, c *api.Client) (Stats, error) {
	var env api.DataEnvelope[Stats]
	if err := c.Get(ctx, "/profile/stats", nil, &env); err != nil {
		return Stats{}, err
	}
	return env.Data, nil
}
