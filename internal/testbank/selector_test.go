package testbank_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

func bank(n int) []testbank.Question {
	qs := make([]testbank.Question, n)
	for i := range qs {
		qs[i] = testbank.Question{ID: "q" + strconv.Itoa(i), Type: testbank.TypeEssay, Key: testbank.EssayKey{}}
	}
	return qs
}

func TestSelect(t *testing.T) {
	all := bank(7)
	original := testbank.IDs(all)

	for n := -1; n <= len(all)+2; n++ {
		got := testbank.Select(all, n)

		want := n
		if want < 0 {
			want = 0
		}
		if want > len(all) {
			want = len(all)
		}
		if len(got) != want {
			t.Fatalf("Select(%d) returned %d questions, want %d", n, len(got), want)
		}

		seen := map[string]bool{}
		for _, q := range got {
			if seen[q.ID] {
				t.Fatalf("Select(%d) returned duplicate %s", n, q.ID)
			}
			seen[q.ID] = true
			if _, ok := (&testbank.Test{Questions: all}).QuestionByID(q.ID); !ok {
				t.Fatalf("Select(%d) returned foreign question %s", n, q.ID)
			}
		}
	}

	for i, id := range testbank.IDs(all) {
		if id != original[i] {
			t.Fatalf("Select must not reorder its input")
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	if got := testbank.Select(nil, 3); len(got) != 0 {
		t.Errorf("Select(nil, 3) = %v, want empty", got)
	}
}

func TestSelectCoversAllPermutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	all := bank(3)
	seen := map[string]int{}

	for i := 0; i < 600; i++ {
		ids := testbank.IDs(testbank.SelectWith(rng, all, 3))
		seen[ids[0]+ids[1]+ids[2]]++
	}

	if len(seen) != 6 {
		t.Fatalf("expected all 6 orderings, saw %d: %v", len(seen), seen)
	}
	for perm, count := range seen {
		if count < 50 {
			t.Errorf("ordering %s drawn only %d times out of 600", perm, count)
		}
	}
}
