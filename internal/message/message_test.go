package message

import "testing"

func TestAddCoalescesConsecutiveDuplicates(t *testing.T) {
	l := NewLog(10)
	l.Add("You wait.", ColorNeutral)
	l.Add("You wait.", ColorNeutral)
	l.Add("You wait.", ColorNeutral)

	if l.Len() != 1 {
		t.Fatalf("log has %d entries, want 1", l.Len())
	}
	if got := l.Entries()[0].FullText(); got != "You wait. (x3)" {
		t.Fatalf("FullText = %q", got)
	}
}

func TestNonConsecutiveDuplicatesDoNotCoalesce(t *testing.T) {
	l := NewLog(10)
	l.Add("a", ColorNeutral)
	l.Add("b", ColorNeutral)
	l.Add("a", ColorNeutral)
	if l.Len() != 3 {
		t.Fatalf("log has %d entries, want 3", l.Len())
	}
	if got := l.Entries()[2].FullText(); got != "a" {
		t.Fatalf("single entry FullText = %q", got)
	}
}

func TestCapDropsOldest(t *testing.T) {
	l := NewLog(3)
	for _, s := range []string{"1", "2", "3", "4"} {
		l.Add(s, ColorNeutral)
	}
	entries := l.Entries()
	if len(entries) != 3 || entries[0].Text != "2" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestTail(t *testing.T) {
	l := NewLog(10)
	for _, s := range []string{"1", "2", "3"} {
		l.Add(s, ColorNeutral)
	}
	tail := l.Tail(2)
	if len(tail) != 2 || tail[0].Text != "2" || tail[1].Text != "3" {
		t.Fatalf("Tail(2) = %v", tail)
	}
	if got := l.Tail(99); len(got) != 3 {
		t.Fatalf("Tail(99) = %v", got)
	}
}

func TestFGFallsBackToWhite(t *testing.T) {
	if FG("no_such_atom") != FG(ColorMenuText) {
		t.Fatal("unknown atom should resolve to white")
	}
}
