package suggest

import (
	"reflect"
	"testing"
)

func TestEngine_Lookup_FirstFourInDictionaryOrder(t *testing.T) {
	e := New([]string{"good", "great", "go", "game", "give", "girl"})

	got := e.Lookup('G')
	want := []string{"good", "great", "go", "game"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup('G') = %v, want %v", got, want)
	}
}

func TestEngine_Lookup_CaseInsensitive(t *testing.T) {
	e := New([]string{"Good", "great"})

	if got := e.Lookup('g'); len(got) != 2 {
		t.Errorf("Lookup('g') = %v, want both entries regardless of case", got)
	}
	if got := e.Lookup('G'); len(got) != 2 {
		t.Errorf("Lookup('G') = %v, want both entries regardless of case", got)
	}
}

func TestEngine_Lookup_ZeroLetter(t *testing.T) {
	e := Default()

	if got := e.Lookup(0); got != nil {
		t.Errorf("Lookup(0) = %v, want nil", got)
	}
}

func TestEngine_Lookup_NoMatches(t *testing.T) {
	e := New([]string{"apple", "banana"})

	if got := e.Lookup('z'); len(got) != 0 {
		t.Errorf("Lookup('z') = %v, want none", got)
	}
}

func TestEngine_Lookup_FewerThanMax(t *testing.T) {
	e := New([]string{"zero", "zoom", "apple"})

	got := e.Lookup('z')
	want := []string{"zero", "zoom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup('z') = %v, want %v", got, want)
	}
}

func TestDefault_CoversAlphabetStaples(t *testing.T) {
	e := Default()

	if e.Size() == 0 {
		t.Fatal("default dictionary is empty")
	}
	for _, letter := range []rune{'h', 'g', 'w'} {
		if len(e.Lookup(letter)) == 0 {
			t.Errorf("default dictionary has no words for %q", letter)
		}
	}
}
