package similarity

// Ratio computes the Ratcliff/Obershelp similarity of two strings:
// 2*M / (len(a)+len(b)), where M is the total length of matching blocks
// found by repeatedly locating the longest common substring and recursing
// on the segments to its left and right.
//
// The result is deterministic, symmetric, and always in [0, 1].
// If either input is empty, Ratio returns 0.
//
// The metric compares literal text only. Boilerplate shared across
// unrelated sites (navigation, ads) inflates scores, and injected junk
// text skews the denominator. This is a known limitation of the simple
// text ratio, not something this package tries to correct.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	matched := 0
	for _, m := range matchingBlocks(a, b) {
		matched += m.size
	}
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// match is a common substring: a[ai:ai+size] == b[bi:bi+size].
type match struct {
	ai, bi, size int
}

// segment is a pending region pair awaiting longest-match search.
type segment struct {
	alo, ahi, blo, bhi int
}

// matchingBlocks finds all matching blocks between a and b using an
// explicit queue instead of recursion so that pathological inputs cannot
// exhaust the stack.
func matchingBlocks(a, b string) []match {
	queue := []segment{{0, len(a), 0, len(b)}}
	var blocks []match

	for len(queue) > 0 {
		seg := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b, seg.alo, seg.ahi, seg.blo, seg.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)

		if seg.alo < m.ai && seg.blo < m.bi {
			queue = append(queue, segment{seg.alo, m.ai, seg.blo, m.bi})
		}
		if m.ai+m.size < seg.ahi && m.bi+m.size < seg.bhi {
			queue = append(queue, segment{m.ai + m.size, seg.ahi, m.bi + m.size, seg.bhi})
		}
	}
	return blocks
}

// longestMatch finds the longest common substring of a[alo:ahi] and
// b[blo:bhi]. Of all maximal matches it returns the one starting earliest
// in a, then earliest in b, so results are stable across runs.
//
// The j2len map tracks, for each position j in b, the length of the
// common suffix ending at the current position in a and j in b. No
// junk or autojunk heuristic is applied: page texts are already
// whitespace-normalized before scoring.
func longestMatch(a, b string, alo, ahi, blo, bhi int) match {
	best := match{ai: alo, bi: blo}
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > best.size {
				best = match{ai: i - k + 1, bi: j - k + 1, size: k}
			}
		}
		j2len = newj2len
	}
	return best
}
