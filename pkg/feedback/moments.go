package feedback

import "strings"

// MatchKeyMoments assigns each key moment the offset of the transcript
// entry its quote most plausibly cites. Matching is deterministic:
// the entry sharing the longest normalized substring overlap with the
// quote wins, ties break toward the earliest entry, and each entry is
// used at most once. Moments with no overlap keep a negative offset.
func MatchKeyMoments(res *Result, transcript []TranscriptEntry) {
	if len(transcript) == 0 {
		return
	}
	used := make([]bool, len(transcript))
	for i := range res.KeyMoments {
		quote := normalize(res.KeyMoments[i].Quote)
		if quote == "" {
			continue
		}
		best, bestScore := -1, 0
		for j, entry := range transcript {
			if used[j] {
				continue
			}
			score := overlap(quote, normalize(entry.Text))
			if score > bestScore {
				best, bestScore = j, score
			}
		}
		// Require a meaningful overlap so short incidental matches
		// do not bind a moment to an unrelated line.
		if best >= 0 && bestScore >= 12 {
			res.KeyMoments[i].OffsetSeconds = transcript[best].OffsetSeconds
			used[best] = true
		}
	}
}

func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

// overlap returns the length of the longest common substring of a
// and b. Quadratic, but quotes and utterances are short.
func overlap(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}
