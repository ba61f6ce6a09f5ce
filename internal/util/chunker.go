package util

// ChunkText splits text into rune chunks of at most chunkSize with the last
// overlap runes of each chunk repeated at the start of the next. Every rune
// of the input appears in at least one chunk, so rejoining the chunks while
// dropping the duplicated overlap prefix reconstructs the input exactly.
// Callers validate overlap < chunkSize up front (config.Validate); the
// guards here only keep a bad call from looping forever.
func ChunkText(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}
	step := chunkSize - overlap
	out := make([]string, 0, (len(runes)+step-1)/step)
	for i := 0; ; i += step {
		end := i + chunkSize
		if end >= len(runes) {
			out = append(out, string(runes[i:]))
			break
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}
