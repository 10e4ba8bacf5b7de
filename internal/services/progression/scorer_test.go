package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

func TestScore(t *testing.T) {
	key := map[int64]int{1: 0, 2: 3, 3: 1}

	tests := []struct {
		name         string
		reponses     []models.DummyReponse
		wantScore    int
		wantCorrects int
	}{
		{
			name:      "no answers",
			reponses:  nil,
			wantScore: 0,
		},
		{
			name: "all correct",
			reponses: []models.DummyReponse{
				{QuestionID: 1, ReponseIndex: 0},
				{QuestionID: 2, ReponseIndex: 3},
				{QuestionID: 3, ReponseIndex: 1},
			},
			wantScore:    100,
			wantCorrects: 3,
		},
		{
			name: "two thirds rounds up to 67",
			reponses: []models.DummyReponse{
				{QuestionID: 1, ReponseIndex: 0},
				{QuestionID: 2, ReponseIndex: 3},
				{QuestionID: 3, ReponseIndex: 2},
			},
			wantScore:    67,
			wantCorrects: 2,
		},
		{
			name: "one third rounds down to 33",
			reponses: []models.DummyReponse{
				{QuestionID: 1, ReponseIndex: 0},
				{QuestionID: 2, ReponseIndex: 0},
				{QuestionID: 3, ReponseIndex: 2},
			},
			wantScore:    33,
			wantCorrects: 1,
		},
		{
			name: "unknown question counts against the score",
			reponses: []models.DummyReponse{
				{QuestionID: 1, ReponseIndex: 0},
				{QuestionID: 999, ReponseIndex: 0},
			},
			wantScore:    50,
			wantCorrects: 1,
		},
		{
			name: "all wrong",
			reponses: []models.DummyReponse{
				{QuestionID: 1, ReponseIndex: 1},
				{QuestionID: 2, ReponseIndex: 0},
			},
			wantScore:    0,
			wantCorrects: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, corrects := Score(tt.reponses, key)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantCorrects, corrects)
		})
	}
}
