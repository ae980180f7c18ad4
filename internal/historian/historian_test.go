package historian

import (
	"errors"
	"testing"

	"github.com/pbaille/council/internal/domain"
)

type fakeLister struct {
	summaries []domain.Summary
	err       error
}

func (f *fakeLister) List() ([]domain.Summary, error) {
	return f.summaries, f.err
}

func intPtr(v int) *int { return &v }

func TestRetrieveRanksByCompositeScore(t *testing.T) {
	lister := &fakeLister{summaries: []domain.Summary{
		{ID: "followed", Topic: "postgres cache layer", Question: "",
			Outcome: &domain.Outcome{Status: domain.OutcomeFollowed}},
		{ID: "wrong", Topic: "postgres cache layer", Question: "",
			Outcome: &domain.Outcome{Status: domain.OutcomeWrong}},
	}}

	result, err := Retrieve(lister, "postgres cache layer")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(result.Related) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Related))
	}
	if result.Related[0].ID != "followed" {
		t.Fatalf("followed session should rank first, got %s", result.Related[0].ID)
	}

	followed := result.Related[0].RelevanceScore
	wrong := result.Related[1].RelevanceScore
	if followed != 1.2 || wrong != 0.5 {
		t.Fatalf("expected scores 1.2 and 0.5, got %v and %v", followed, wrong)
	}
	// Identical overlap, so the ranking gap is purely the outcome weighting.
	if followed/wrong != 2.4 {
		t.Fatalf("expected 2.4x ratio, got %v", followed/wrong)
	}
}

func TestRetrieveZeroOverlapExcluded(t *testing.T) {
	lister := &fakeLister{summaries: []domain.Summary{
		{ID: "unrelated", Topic: "marketing funnel", Question: "improve conversion"},
	}}
	result, err := Retrieve(lister, "postgres cache layer")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(result.Related) != 0 {
		t.Fatalf("zero-overlap session must be excluded, got %+v", result.Related)
	}
}

func TestRetrieveAppliesFloor(t *testing.T) {
	// One shared keyword out of many: base is small, and the wrong outcome
	// halves it below the floor.
	lister := &fakeLister{summaries: []domain.Summary{
		{ID: "barely", Topic: "postgres alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo",
			Outcome: &domain.Outcome{Status: domain.OutcomeWrong}},
	}}
	result, err := Retrieve(lister, "postgres lima mike november oscar papa quebec romeo sierra tango uniform victor")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(result.Related) != 0 {
		t.Fatalf("sub-floor scores must be dropped, got %+v", result.Related)
	}
}

func TestRetrieveCapsAtThree(t *testing.T) {
	summaries := make([]domain.Summary, 5)
	for i := range summaries {
		summaries[i] = domain.Summary{ID: domain.SeatID(i + 1), Topic: "postgres cache layer"}
	}
	result, err := Retrieve(&fakeLister{summaries: summaries}, "postgres cache layer")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(result.Related) != 3 {
		t.Fatalf("expected top 3, got %d", len(result.Related))
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	result, err := Retrieve(&fakeLister{err: errors.New("should not be called")}, "the and a to")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if result.Related == nil || len(result.Related) != 0 {
		t.Fatalf("expected empty non-nil related, got %+v", result.Related)
	}
	if result.QueryKeywords == nil || len(result.QueryKeywords) != 0 {
		t.Fatalf("expected empty non-nil keywords, got %+v", result.QueryKeywords)
	}
}

func TestRetrievePropagatesListError(t *testing.T) {
	wantErr := errors.New("disk on fire")
	if _, err := Retrieve(&fakeLister{err: wantErr}, "postgres"); !errors.Is(err, wantErr) {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestRatingWeight(t *testing.T) {
	if w := RatingWeight(nil); w != 1.0 {
		t.Fatalf("unrated should weigh 1.0, got %v", w)
	}
	if w := RatingWeight(intPtr(5)); w != 5.0/3.0 {
		t.Fatalf("rating 5 should weigh 5/3, got %v", w)
	}
	if w := RatingWeight(intPtr(1)); w != 1.0/3.0 {
		t.Fatalf("rating 1 should weigh 1/3, got %v", w)
	}
}

func TestOutcomeWeight(t *testing.T) {
	cases := []struct {
		outcome *domain.Outcome
		want    float64
	}{
		{nil, 1.0},
		{&domain.Outcome{Status: domain.OutcomeFollowed}, 1.2},
		{&domain.Outcome{Status: domain.OutcomePartial}, 0.9},
		{&domain.Outcome{Status: domain.OutcomeIgnored}, 0.8},
		{&domain.Outcome{Status: domain.OutcomeWrong}, 0.5},
		{&domain.Outcome{Status: "shelved"}, 1.0},
	}
	for _, c := range cases {
		if got := OutcomeWeight(c.outcome); got != c.want {
			t.Fatalf("OutcomeWeight(%+v) = %v, want %v", c.outcome, got, c.want)
		}
	}
}
