package log

import (
	"fmt"
	"testing"
)

func entry(level, msg string) Entry {
	return Entry{Timestamp: 1, Level: level, Message: msg, Source: "test"}
}

func TestBufferEviction(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append(entry("INFO", fmt.Sprintf("msg-%d", i)))
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}

	page, total := b.Page(10, 0, "DEBUG")
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	// Newest first, oldest two evicted.
	if page[0].Message != "msg-4" || page[2].Message != "msg-2" {
		t.Errorf("unexpected page order: %v", page)
	}
}

func TestBufferLevelFilter(t *testing.T) {
	b := NewBuffer(10)
	b.Append(entry("DEBUG", "d"))
	b.Append(entry("INFO", "i"))
	b.Append(entry("WARNING", "w"))
	b.Append(entry("ERROR", "e"))

	page, total := b.Page(10, 0, "WARNING")
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if page[0].Message != "e" || page[1].Message != "w" {
		t.Errorf("unexpected filtered page: %v", page)
	}
}

func TestBufferPaging(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 6; i++ {
		b.Append(entry("INFO", fmt.Sprintf("msg-%d", i)))
	}

	page, total := b.Page(2, 2, "DEBUG")
	if total != 6 {
		t.Errorf("total = %d, want 6", total)
	}
	if len(page) != 2 || page[0].Message != "msg-3" || page[1].Message != "msg-2" {
		t.Errorf("unexpected page: %v", page)
	}

	// Offset past the end yields an empty page, not an error.
	page, _ = b.Page(2, 100, "DEBUG")
	if len(page) != 0 {
		t.Errorf("expected empty page, got %v", page)
	}
}

func TestBufferStreamNonBlocking(t *testing.T) {
	b := NewBuffer(4)
	// Way more entries than the stream channel holds; Append must not block.
	for i := 0; i < 500; i++ {
		b.Append(entry("INFO", "flood"))
	}
	if b.Len() != 4 {
		t.Errorf("Len = %d, want 4", b.Len())
	}

	select {
	case e := <-b.Stream():
		if e.Message != "flood" {
			t.Errorf("unexpected streamed entry: %v", e)
		}
	default:
		t.Error("expected at least one streamed entry")
	}
}
