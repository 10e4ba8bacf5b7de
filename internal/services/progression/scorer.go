package services

import (
	"math"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Score grades a submission against the chapter's answer key. The score is
// the percentage of correct answers over SUBMITTED answers, rounded to the
// nearest integer. An answer referencing an unknown question id counts in
// the denominator but can never be correct. No answers means zero.
func Score(reponses []models.DummyReponse, correct map[int64]int) (score, nbCorrectes int) {
	if len(reponses) == 0 {
		return 0, 0
	}
	for _, r := range reponses {
		want, ok := correct[r.QuestionID]
		if ok && r.ReponseIndex == want {
			nbCorrectes++
		}
	}
	score = int(math.Round(100 * float64(nbCorrectes) / float64(len(reponses))))
	return score, nbCorrectes
}
