package kaltura

// SessionType is the Kaltura session role.
type SessionType int

const (
	// SessionTypeUser is an ordinary end-user session, sufficient for
	// uploads and read operations.
	SessionTypeUser SessionType = 0

	// SessionTypeAdmin is an administrative session, required for
	// category creation.
	SessionTypeAdmin SessionType = 2
)

// MediaTypeVideo is the Kaltura media kind for video entries.
const MediaTypeVideo = 1

// CategorySeparator joins ancestor names into a category fullName.
const CategorySeparator = ">"

// Session is an authenticated Kaltura session string (KS). It is scoped
// to a single workflow run and never persisted.
type Session string

// Category is a node in the Kaltura category tree. FullName is the
// ancestor-to-leaf name path joined by CategorySeparator and is unique
// across the whole namespace.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	ParentID int    `json:"parentId"` // 0 means root level
}

// UploadToken is a short-lived handle for a pending file upload.
type UploadToken struct {
	ID string `json:"id"`
}

// MediaEntry is the remote object representing one uploaded video.
type MediaEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MediaType    int    `json:"mediaType"`
	CategoryIDs  string `json:"categoriesIds"`
	PartnerID    int    `json:"partnerId"`
	DownloadURL  string `json:"downloadUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// FlavorNames maps the flavorParamIds values the tool exposes to their
// display labels.
var FlavorNames = map[string]string{
	"0": "Raw Video",
	"2": "Basic/Small",
	"4": "SD/Small",
	"5": "SD/Large",
	"7": "HD/1080",
}

// DefaultFlavor is the flavor used when the caller does not pick one.
const DefaultFlavor = "7"

// IsKnownFlavor reports whether id is one of the exposed flavors.
func IsKnownFlavor(id string) bool {
	_, ok := FlavorNames[id]
	return ok
}
