package engine

import (
	"regexp"
	"strings"
)

var (
	linkPattern    = regexp.MustCompile(`(?i)(?:https?://)?(?:t(?:elegram)?\.me)/([A-Za-z0-9_]{3,32})`)
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{3,32})`)
)

// reservedPaths are t.me paths that never name a public channel.
var reservedPaths = map[string]struct{}{
	"joinchat":    {},
	"share":       {},
	"proxy":       {},
	"addstickers": {},
}

// ExtractHandles parses free text into the ordered, de-duplicated list of
// channel handles it references. Recognized forms: full URL, bare domain path
// and @mention. An empty result is not an error; the caller decides.
func ExtractHandles(text string) []string {
	seen := make(map[string]struct{})
	handles := make([]string, 0, 4)

	add := func(handle string) {
		handle = strings.ToLower(strings.TrimSpace(handle))
		if handle == "" {
			return
		}
		if _, reserved := reservedPaths[handle]; reserved {
			return
		}
		if _, dup := seen[handle]; dup {
			return
		}
		seen[handle] = struct{}{}
		handles = append(handles, handle)
	}

	for _, match := range linkPattern.FindAllStringSubmatch(text, -1) {
		add(match[1])
	}
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		add(match[1])
	}

	return handles
}
