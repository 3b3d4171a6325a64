package memories

import (
	"context"
	"fmt"

	"github.com/mynaturejourney/journey/pkg/api"
)

type timelineEnvelope struct {
	Timeline Timeline `json:"timeline"`
}

type timelinesEnvelope struct {
	Timelines []Timeline `json:"timelines"`
}

type timelinePhotoEnvelope struct {
	Photo TimelinePhoto `json:"photo"`
}

type timelinePhotosEnvelope struct {
	Photos []TimelinePhoto `json:"photos"`
}

func timelinesPath(memoryID int) string {
	return fmt.Sprintf("/memory/%d/timelines", memoryID)
}

func timelinePath(memoryID, timelineID int) string {
	return fmt.Sprintf("/memory/%d/timelines/%d", memoryID, timelineID)
}

func ListTimelines(ctx context.Context, c *api.Client, memoryID int) ([]Timeline, error) {
	var env timelinesEnvelope
	if err := c.Get(ctx, timelinesPath(memoryID), nil, &env); err != nil {
		return nil, err
	}
	return env.Timelines, nil
}

func CreateTimeline(ctx context.Context, c *api.Client, memoryID int, data TimelineData) (Timeline, error) {
	var env timelineEnvelope
	if err := c.Post(ctx, timelinesPath(memoryID), data, &env); err != nil {
		return Timeline{}, err
	}
	return env.Timeline, nil
}

func UpdateTimeline(ctx context.Context, c *api.Client, memoryID, timelineID int, data TimelineUpdate) (Timeline, error) {
	var env timelineEnvelope
	if err := c.Put(ctx, timelinePath(memoryID, timelineID), data, &env); err != nil {
		return Timeline{}, err
	}
	return env.Timeline, nil
}

func DeleteTimeline(ctx context.Context, c *api.Client, memoryID, timelineID int) error {
	return c.Delete(ctx, timelinePath(memoryID, timelineID), nil)
}

func UploadTimelinePhoto(ctx context.Context, c *api.Client, memoryID, timelineID int, u Upload, sortOrder *int) (TimelinePhoto, error) {
	var env timelinePhotoEnvelope
	if err := uploadImage(ctx, c, timelinePath(memoryID, timelineID)+"/photos", u, sortOrder, &env); err != nil {
		return TimelinePhoto{}, err
	}
	return env.Photo, nil
}

func ListTimelinePhotos(ctx context.Context, c *api.Client, memoryID, timelineID int) ([]TimelinePhoto, error) {
	var env timelinePhotosEnvelope
	if err := c.Get(ctx, timelinePath(memoryID, timelineID)+"/photos", nil, &env); err != nil {
		return nil, err
	}
	return env.Photos, nil
}

func DeleteTimelinePhoto(ctx context.Context, c *api.Client, memoryID, timelineID, photoID int) error {
	return c.Delete(ctx, fmt.Sprintf("%s/photos/%d", timelinePath(memoryID, timelineID), photoID), nil)
}

func TimelinePhotoURL(c *api.Client, memoryID, timelineID, photoID int) string {
	return c.AuthedURL(fmt.Sprintf("%s/photos/%d", timelinePath(memoryID, timelineID), photoID))
}
