package services

import (
	"testing"
)

func TestBreakdownPoints(t *testing.T) {
	tests := []struct {
		name      string
		breakdown ContributionBreakdown
		want      float64
	}{
		{"empty", ContributionBreakdown{}, 0},
		{"completed only", ContributionBreakdown{TasksCompleted: 2}, 6},
		{"in progress only", ContributionBreakdown{TasksInProgress: 3}, 3},
		{"created only", ContributionBreakdown{TasksCreated: 4}, 4},
		{"other only", ContributionBreakdown{OtherActivities: 3}, 1.5},
		{
			"mixed with reviews",
			ContributionBreakdown{TasksCompleted: 1, TasksCreated: 2, OtherActivities: 2, ReviewAverage: 4.5, ReviewCount: 3},
			3 + 2 + 1 + 4.5,
		},
		{
			// A zero average with no reviews must not be confused with a
			// real zero rating.
			"no reviews adds nothing",
			ContributionBreakdown{TasksCompleted: 1, ReviewAverage: 0, ReviewCount: 0},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.breakdown.Points(); got != tt.want {
				t.Errorf("Points() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankContributionsOrdering(t *testing.T) {
	ranked := RankContributions([]MemberContribution{
		{UserID: 3, Points: 5},
		{UserID: 1, Points: 10},
		{UserID: 2, Points: 5},
	})

	wantOrder := []uint{1, 3, 2}
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Errorf("position %d: got user %d, want %d", i, ranked[i].UserID, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("user %d: rank = %d, want %d", ranked[i].UserID, ranked[i].Rank, i+1)
		}
	}
}

func TestRankContributionsTieBreaksByUserID(t *testing.T) {
	ranked := RankContributions([]MemberContribution{
		{UserID: 9, Points: 7},
		{UserID: 2, Points: 7},
	})
	if ranked[0].UserID != 2 || ranked[1].UserID != 9 {
		t.Errorf("tied scores should order by user ID, got %d then %d", ranked[0].UserID, ranked[1].UserID)
	}
}

func TestRankContributionsPercentages(t *testing.T) {
	ranked := RankContributions([]MemberContribution{
		{UserID: 1, Points: 8},
		{UserID: 2, Points: 4},
		{UserID: 3, Points: 0},
	})

	if ranked[0].Percentage != 100 {
		t.Errorf("top scorer percentage = %d, want 100", ranked[0].Percentage)
	}
	if ranked[1].Percentage != 50 {
		t.Errorf("half of top percentage = %d, want 50", ranked[1].Percentage)
	}
	if ranked[2].Percentage != 0 {
		t.Errorf("zero points percentage = %d, want 0", ranked[2].Percentage)
	}
}

func TestRankContributionsAllZero(t *testing.T) {
	ranked := RankContributions([]MemberContribution{
		{UserID: 1},
		{UserID: 2},
	})
	for _, m := range ranked {
		if m.Percentage != 0 {
			t.Errorf("user %d: percentage = %d, want 0 when nobody has points", m.UserID, m.Percentage)
		}
	}
}

func TestRankContributionsEmpty(t *testing.T) {
	if got := RankContributions(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
