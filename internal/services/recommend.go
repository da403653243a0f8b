package services

import (
	"sort"
	"time"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

const (
	sameHostelBoost  = 5.0
	maxCategoryBoost = 5
)

// ScoreListing ranks a listing for a viewer: a same-hostel bonus, one point
// per recent click on its category (capped), and a freshness bonus that
// decays to zero over the first day.
func ScoreListing(l *models.Listing, hostel string, freq map[string]int, now time.Time) float64 {
	var score float64
	if hostel != "" && l.Hostel == hostel {
		score += sameHostelBoost
	}
	if n := freq[l.Category]; n > 0 {
		score += float64(min(maxCategoryBoost, n))
	}
	if !l.CreatedAt.IsZero() {
		ageDays := now.Sub(l.CreatedAt).Hours() / 24
		score += max(0, 1-ageDays)
	}
	return score
}

// Recommend orders listings by ScoreListing, highest first. Ties keep their
// input order.
func Recommend(listings []models.Listing, hostel string, clicks []string, now time.Time) []models.Listing {
	freq := make(map[string]int, len(clicks))
	for _, c := range clicks {
		freq[c]++
	}

	scores := make([]float64, len(listings))
	idx := make([]int, len(listings))
	for i := range listings {
		scores[i] = ScoreListing(&listings[i], hostel, freq, now)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]models.Listing, len(listings))
	for i, j := range idx {
		out[i] = listings[j]
	}
	return out
}
