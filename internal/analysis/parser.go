package analysis

import "strings"

// SectionMarker binds a result key to the literal marker string expected in
// generated text.
type SectionMarker struct {
	Key    string
	Marker string
}

// ParseSections maps each marker to the text between it and the next marker
// found in raw (or end of text for the last one). Markers absent from raw
// are simply omitted; generated text never fails to parse, it just yields
// fewer sections.
func ParseSections(raw string, markers []SectionMarker) map[string]string {
	type hit struct {
		key   string
		start int
		end   int
	}
	hits := make([]hit, 0, len(markers))
	for _, m := range markers {
		idx := strings.Index(raw, m.Marker)
		if idx < 0 {
			continue
		}
		hits = append(hits, hit{key: m.Key, start: idx, end: idx + len(m.Marker)})
	}
	// Markers may appear out of declaration order in generated text; cut the
	// raw string at the positions actually found.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].start < hits[j-1].start; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make(map[string]string, len(hits))
	for i, h := range hits {
		stop := len(raw)
		if i+1 < len(hits) {
			stop = hits[i+1].start
		}
		out[h.key] = strings.TrimSpace(raw[h.end:stop])
	}
	return out
}

// SplitLines returns the non-empty trimmed lines of generated list output,
// in generation order.
func SplitLines(raw string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// TextAfterMarker returns the text following marker, or raw unchanged when
// the marker is absent.
func TextAfterMarker(raw, marker string) string {
	if idx := strings.Index(raw, marker); idx >= 0 {
		return strings.TrimSpace(raw[idx+len(marker):])
	}
	return strings.TrimSpace(raw)
}

func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
