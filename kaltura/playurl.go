package kaltura

import (
	"fmt"
	"strings"
)

const (
	streamingFormat   = "download"
	streamingProtocol = "https"
)

// PlayManifestURL builds the deterministic playable URL for an entry at
// the selected flavor.
func PlayManifestURL(serviceURL string, partnerID int, entryID, flavor string) string {
	return fmt.Sprintf("%s/p/%d/sp/0/playManifest/entryId/%s/format/%s/protocol/%s/flavorParamIds/%s/",
		strings.TrimRight(serviceURL, "/"), partnerID, entryID, streamingFormat, streamingProtocol, flavor)
}
