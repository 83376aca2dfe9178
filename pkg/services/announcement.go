package services

import (
	"regexp"
	"strings"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
)

// The build tool announces the uploaded entry point as
// {category}/{app-slug}/index.html:{revision-token}.
var announcementPattern = regexp.MustCompile(`[A-Za-z]+/[0-9A-Za-z_-]+/index\.html:[A-Za-z0-9]+`)

// Announcement is the parsed entry point announcement of a build.
type Announcement struct {
	Dir      string
	Revision string
}

// SourceKey is the storage key the build tool uploaded the entry point to.
func (a Announcement) SourceKey() string {
	return a.Dir + "/" + consts.IndexHTML + ":" + a.Revision
}

// VersionedPath is the path prefix unique to this revision.
func (a Announcement) VersionedPath() string {
	return a.Dir + "/" + a.Revision
}

// ParseAnnouncement returns the first announcement in the build output.
func ParseAnnouncement(output string) (Announcement, bool) {
	match := announcementPattern.FindString(output)
	if match == "" {
		return Announcement{}, false
	}
	idx := strings.LastIndex(match, "/"+consts.IndexHTML+":")
	return Announcement{
		Dir:      match[:idx],
		Revision: match[idx+len("/"+consts.IndexHTML+":"):],
	}, true
}
