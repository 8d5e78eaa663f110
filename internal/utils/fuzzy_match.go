package utils

// DamerauLevenshtein returns the optimal string alignment distance between a and b.
// Distances are counted in runes; swapping two adjacent runes costs one edit.
func DamerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	// Three rolling rows are enough for the transposition lookback
	prev2 := make([]int, m+1)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = min(best, prev2[j-2]+1)
			}
			curr[j] = best
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[m]
}

// Similarity scales the edit distance by the longer input.
// 1 means identical, 0 means nothing in common.
func Similarity(a, b string) float64 {
	longest := max(RuneLen(a), RuneLen(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(DamerauLevenshtein(a, b))/float64(longest)
}

// WithinDistance reports the distance between a and b when it does not exceed maxDistance.
// Inputs whose lengths differ by more than maxDistance are rejected without running the DP.
func WithinDistance(a, b string, maxDistance int) (int, bool) {
	la, lb := RuneLen(a), RuneLen(b)
	if abs(la-lb) > maxDistance {
		return 0, false
	}
	d := DamerauLevenshtein(a, b)
	if d > maxDistance {
		return 0, false
	}
	return d, true
}

// MaxEditsForLength is the correction budget for a single word of n runes.
func MaxEditsForLength(n int) int {
	if n <= 4 {
		return 1
	}
	return 2
}

// RuneLen counts runes rather than bytes.
func RuneLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
