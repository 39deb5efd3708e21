package subtitles

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestGroupCuesPairs(t *testing.T) {
	cues := []Cue{
		{Text: "one", Start: 0, End: 1},
		{Text: "two", Start: 1, End: 2.5},
		{Text: "three", Start: 3, End: 4},
	}
	got, err := GroupCues(cues, DefaultGroupSize)
	if err != nil {
		t.Fatalf("GroupCues returned error: %v", err)
	}
	want := []Block{
		{Text: "one\ntwo", Start: 0, End: 2.5},
		{Text: "three", Start: 3, End: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupCues = %+v, want %+v", got, want)
	}
}

func TestGroupCuesBlockCount(t *testing.T) {
	for n := 0; n <= 9; n++ {
		cues := make([]Cue, n)
		for i := range cues {
			cues[i] = Cue{Text: fmt.Sprintf("cue %d", i), Start: float64(i), End: float64(i) + 0.5}
		}
		blocks, err := GroupCues(cues, 2)
		if err != nil {
			t.Fatalf("GroupCues(%d cues): %v", n, err)
		}
		if want := (n + 1) / 2; len(blocks) != want {
			t.Fatalf("GroupCues(%d cues) = %d blocks, want %d", n, len(blocks), want)
		}
		if n%2 == 1 {
			last := blocks[len(blocks)-1]
			if len(last.Lines()) != 1 {
				t.Fatalf("GroupCues(%d cues) last block has %d lines, want 1", n, len(last.Lines()))
			}
		}
	}
}

func TestGroupCuesEmptyInput(t *testing.T) {
	blocks, err := GroupCues(nil, 2)
	if err != nil {
		t.Fatalf("GroupCues returned error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %+v", blocks)
	}
}

func TestGroupCuesSkipsBlankCues(t *testing.T) {
	cues := []Cue{
		{Text: "a", Start: 0, End: 1},
		{Text: "  ", Start: 1, End: 2},
		{Text: "b", Start: 2, End: 3},
	}
	blocks, err := GroupCues(cues, 2)
	if err != nil {
		t.Fatalf("GroupCues returned error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Text != "a\nb" || blocks[0].End != 3 {
		t.Fatalf("GroupCues = %+v, want single a/b block ending at 3", blocks)
	}
}

func TestGroupCuesLargerGroups(t *testing.T) {
	cues := []Cue{{Text: "1", End: 1}, {Text: "2", Start: 1, End: 2}, {Text: "3", Start: 2, End: 3}, {Text: "4", Start: 3, End: 4}}
	blocks, err := GroupCues(cues, 3)
	if err != nil {
		t.Fatalf("GroupCues returned error: %v", err)
	}
	if len(blocks) != 2 || blocks[0].Text != "1\n2\n3" || blocks[1].Text != "4" {
		t.Fatalf("GroupCues = %+v", blocks)
	}
	if blocks[0].Start != 0 || blocks[0].End != 3 || blocks[1].Start != 3 || blocks[1].End != 4 {
		t.Fatalf("unexpected intervals: %+v", blocks)
	}
}

func TestGroupRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := GroupCues([]Cue{{Text: "a"}}, size); !errors.Is(err, ErrConfig) {
			t.Fatalf("GroupCues(size %d) error = %v, want ErrConfig", size, err)
		}
		if _, err := GroupLines([]string{"a"}, size); !errors.Is(err, ErrConfig) {
			t.Fatalf("GroupLines(size %d) error = %v, want ErrConfig", size, err)
		}
	}
	var cfgErr *ConfigError
	_, err := GroupCues(nil, 0)
	if !errors.As(err, &cfgErr) || cfgErr.Field != "group_size" {
		t.Fatalf("expected ConfigError for group_size, got %v", err)
	}
}

func TestGroupLines(t *testing.T) {
	got, err := GroupLines([]string{"a", "", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("GroupLines returned error: %v", err)
	}
	if want := []string{"a\nb", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupLines = %q, want %q", got, want)
	}
}
