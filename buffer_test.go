package twswire

import (
	"errors"
	"testing"
)

func TestFrameBuffer_Append(t *testing.T) {
	b := NewFrameBuffer(4)
	b.Append([]byte("71"))
	b.Append([]byte{0})

	if b.Len() != 3 {
		t.Errorf("Len = %d, want 3", b.Len())
	}
	if string(b.Bytes()) != "71\x00" {
		t.Errorf("Bytes = %q, want %q", b.Bytes(), "71\x00")
	}
}

func TestFrameBuffer_AppendField(t *testing.T) {
	b := NewFrameBuffer(0)
	if err := b.AppendField(Int(71)); err != nil {
		t.Fatalf("AppendField failed: %v", err)
	}
	if err := b.AppendField(Bool(true)); err != nil {
		t.Fatalf("AppendField failed: %v", err)
	}
	if err := b.AppendField(String("x\x00")); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
	if string(b.Bytes()) != "71\x001\x00" {
		t.Errorf("Bytes = %q, want %q", b.Bytes(), "71\x001\x00")
	}
}

func TestFrameBuffer_BytesIsReadOnlyView(t *testing.T) {
	b := NewFrameBuffer(16)
	b.Append([]byte("ab"))

	view := b.Bytes()
	_ = append(view, 'z')
	b.Append([]byte("c"))

	if string(b.Bytes()) != "abc" {
		t.Errorf("Bytes = %q, want %q", b.Bytes(), "abc")
	}
}

func TestFrameBuffer_Take(t *testing.T) {
	b := NewFrameBuffer(-1)
	b.Append([]byte("payload"))

	out := b.Take()
	if string(out) != "payload" {
		t.Errorf("Take = %q, want %q", out, "payload")
	}
	if b.Len() != 0 {
		t.Errorf("Len after Take = %d, want 0", b.Len())
	}

	b.Append([]byte("next"))
	if string(out) != "payload" {
		t.Errorf("taken bytes changed to %q", out)
	}
}
