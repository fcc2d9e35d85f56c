package entropy

import (
	"sort"
	"testing"
)

func TestRNGDeterministicForSeed(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)
	for i := 0; i < 1000; i++ {
		if a.Float() != b.Float() {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}
}

func TestChanceBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) fired")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) did not fire")
		}
	}
}

func TestChanceFrequency(t *testing.T) {
	r := NewRNG(2024)
	hits := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if r.Chance(0.25) {
			hits++
		}
	}
	if hits < n/5 || hits > n*3/10 {
		t.Fatalf("Chance(0.25) fired %d/%d times", hits, n)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	r := NewRNG(5)
	vals := []int{0, 1, 2, 3, 4, 5}
	r.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("shuffle lost or duplicated elements: %v", vals)
		}
	}
}

func TestSeedsAreNonZero(t *testing.T) {
	if ClockSeed() == 0 {
		t.Fatal("ClockSeed returned 0")
	}
	if CryptoSeed() == 0 {
		t.Fatal("CryptoSeed returned 0")
	}
}
