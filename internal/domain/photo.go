package domain

import "time"

// Photo is the metadata record of an uploaded picture. The image bytes live
// in the local blob store under BlobKey; only the thumbnail travels with the
// trip. DayID and ActivityID are loose links and may dangle after deletes.
type Photo struct {
	ID          string     `json:"id"`
	DayID       string     `json:"dayId,omitempty"`
	ActivityID  string     `json:"activityId,omitempty"`
	FileName    string     `json:"fileName"`
	FileSize    int64      `json:"fileSize"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	TakenAt     *time.Time `json:"takenAt,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    *Location  `json:"location,omitempty"`
	Thumbnail   string     `json:"thumbnail"`
	BlobKey     string     `json:"blobKey"`
}

// PhotoUpload is the input for storing a new photo.
type PhotoUpload struct {
	FileName    string
	Data        []byte
	DayID       string
	ActivityID  string
	TakenAt     *time.Time
	Description string
	Location    *Location
}
