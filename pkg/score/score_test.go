package score

import "testing"

func TestMateDistanceRoundTrip(t *testing.T) {
	for ply := 0; ply < 10; ply++ {
		for _, s := range []Score{WinIn(3), LossIn(5), Draw, 120, -75} {
			stored := ToTT(s, ply)
			got := FromTT(stored, ply)
			if got != s {
				t.Fatalf("ply=%d s=%d: round trip got %d", ply, s, got)
			}
		}
	}
}

func TestNoneSurvivesRoundTrip(t *testing.T) {
	if FromTT(ToTT(None, 4), 4) != None {
		t.Fatal("None sentinel must round-trip through ToTT/FromTT")
	}
}

func TestIsWinIsLoss(t *testing.T) {
	if !IsWin(WinIn(0)) {
		t.Error("WinIn(0) should be a win")
	}
	if !IsLoss(LossIn(0)) {
		t.Error("LossIn(0) should be a loss")
	}
	if IsWin(Draw) || IsLoss(Draw) {
		t.Error("Draw must not classify as win or loss")
	}
	if IsWin(100) || IsLoss(-100) {
		t.Error("ordinary centipawn scores must not classify as mate scores")
	}
}

func TestBoundMatches(t *testing.T) {
	cases := []struct {
		b           Bound
		s           Score
		alpha, beta Score
		want        bool
	}{
		{BoundExact, 0, -10, 10, true},
		{BoundLower, 20, -10, 10, true},
		{BoundLower, 5, -10, 10, false},
		{BoundUpper, -20, -10, 10, true},
		{BoundUpper, 5, -10, 10, false},
		{BoundNone, 0, -10, 10, false},
	}
	for _, c := range cases {
		if got := c.b.Matches(c.s, c.alpha, c.beta); got != c.want {
			t.Errorf("%v.Matches(%d,%d,%d) = %v, want %v", c.b, c.s, c.alpha, c.beta, got, c.want)
		}
	}
}
