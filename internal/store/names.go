package store

import (
	"fmt"
	"path"
	"strings"

	"corkboard/pkg/types"
)

// PlanAttachment decides where an uploaded file lands and under what name:
// the MIME top-level type picks the category, recorder blobs get a usable
// name, and the name is deduplicated against the destination category.
//
// FUNCTIONAL DISCOVERY: the plan is computed before the file copy starts,
// so two uploads with the same name submitted concurrently can still race
// on the destination name. Accepted, matching the single-turn model where
// back-to-back submissions never collide.
func (s *Store) PlanAttachment(contentType, name string) (types.Category, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := categoryForMIME(contentType)
	name = normalizeName(name, contentType)

	taken := make(map[string]struct{}, len(s.categories[category]))
	for _, record := range s.categories[category] {
		taken[record.Name] = struct{}{}
	}
	return category, dedupeName(name, taken)
}

// categoryForMIME maps the MIME top-level type to a category; anything that
// is not image, video, or audio lands in the generic file category.
func categoryForMIME(contentType string) types.Category {
	top, _, _ := strings.Cut(contentType, "/")
	switch top {
	case "image":
		return types.CategoryImage
	case "video":
		return types.CategoryVideo
	case "audio":
		return types.CategoryAudio
	default:
		return types.CategoryFile
	}
}

// normalizeName rewrites the extensionless "blob" name a MediaRecorder clip
// arrives under to recorder.<subtype>.
func normalizeName(name, contentType string) string {
	if name != "blob" {
		return name
	}
	_, subtype, _ := strings.Cut(contentType, "/")
	if subtype == "" {
		subtype = "bin"
	}
	return "recorder." + subtype
}

// dedupeName probes stem_1.ext, stem_2.ext, … until an unused name is
// found. The taken set is finite and every candidate is distinct, so the
// probe always terminates.
func dedupeName(name string, taken map[string]struct{}) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
