package service

import (
	"context"
	"testing"

	"classpoints/internal/model"
)

func TestLeaderboardRanksByPoints(t *testing.T) {
	classes := newFakeClassRepo()
	svc := NewLeaderboardService(classes)

	seed := []*model.Class{
		{Name: "Bio", Teacher: "A", Points: 5},
		{Name: "Art", Teacher: "B", Points: 12},
		{Name: "Chem", Teacher: "C", Points: 9},
	}
	for _, class := range seed {
		if err := classes.Create(context.Background(), class); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	entries, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	wantOrder := []string{"Art", "Chem", "Bio"}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, entry.Rank, i+1)
		}
		if entry.Name != wantOrder[i] {
			t.Errorf("entry %d name = %q, want %q", i, entry.Name, wantOrder[i])
		}
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	svc := NewLeaderboardService(newFakeClassRepo())

	entries, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
