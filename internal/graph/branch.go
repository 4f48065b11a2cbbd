package graph

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const maxBranchNameLen = 20

// BranchName derives a commit id, which is also the commit's branch
// name, from a commit description the way the original tool does: take
// the first line, lowercase it, replace spaces with underscores, strip
// colons/dots/dashes, and truncate to 20 characters. When randomize is
// true an underscore and a 5-hex-character suffix are appended so concurrent
// branches never collide.
func BranchName(description string, randomize bool) string {
	firstLine := description
	if idx := strings.IndexByte(description, '\n'); idx >= 0 {
		firstLine = description[:idx]
	}

	slug := strings.ToLower(firstLine)
	slug = strings.NewReplacer(" ", "_", ":", "", ".", "", "-", "").Replace(slug)
	if len(slug) > maxBranchNameLen {
		slug = slug[:maxBranchNameLen]
	}
	if slug == "" {
		slug = "commit"
	}

	if !randomize {
		return slug
	}
	return slug + "_" + randomSuffix()
}

// Oneliner returns the first 40 characters of the first line of a
// commit description, used for printing and pull request titles.
func Oneliner(description string) string {
	firstLine := description
	if idx := strings.IndexByte(description, '\n'); idx >= 0 {
		firstLine = description[:idx]
	}
	if len(firstLine) > 40 {
		firstLine = firstLine[:40]
	}
	return firstLine
}

func randomSuffix() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "00000"
	}
	return hex.EncodeToString(buf)[:5]
}
