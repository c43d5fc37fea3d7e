package framer

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("a"),
		[]byte("a {b: c}"),
		bytes.Repeat([]byte{0x42}, 1<<16),
	}
	for _, payload := range cases {
		encoded := Encode(payload)
		f := New()
		got := f.Feed(encoded)
		if len(got) != 1 {
			t.Fatalf("Feed(Encode(%d bytes)) produced %d payloads, want 1", len(payload), len(got))
		}
		if !bytes.Equal(got[0], payload) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got[0]), len(payload))
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	payload := []byte("hello")
	got := Encode(payload)
	want := []byte{5, 0, 0, 0, 'h', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode mismatch: got %v want %v", got, want)
	}
}

func TestFeedAcrossArbitraryChunkBoundaries(t *testing.T) {
	messages := [][]byte{[]byte("one"), {}, []byte("three!"), []byte("4")}
	var wire []byte
	for _, m := range messages {
		wire = append(wire, Encode(m)...)
	}

	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		f := New()
		var got [][]byte
		pos := 0
		for pos < len(wire) {
			n := rnd.Intn(len(wire)-pos) + 1
			got = append(got, f.Feed(wire[pos:pos+n])...)
			pos += n
		}
		if len(got) != len(messages) {
			t.Fatalf("trial %d: got %d payloads, want %d", trial, len(got), len(messages))
		}
		for i := range messages {
			if !bytes.Equal(got[i], messages[i]) {
				t.Fatalf("trial %d: payload %d mismatch: got %q want %q", trial, i, got[i], messages[i])
			}
		}
	}
}

func TestFeedSingleChunkContainsTwoPackets(t *testing.T) {
	a := Encode([]byte("first"))
	b := Encode([]byte("second-plus-a-bit"))
	f := New()
	got := f.Feed(append(append([]byte{}, a...), b...))
	if len(got) != 2 {
		t.Fatalf("got %d payloads, want 2", len(got))
	}
	if string(got[0]) != "first" || string(got[1]) != "second-plus-a-bit" {
		t.Fatalf("unexpected payloads: %q %q", got[0], got[1])
	}
}

func TestFeedPartialNextPacketStartInSameChunk(t *testing.T) {
	a := Encode([]byte("complete"))
	b := Encode([]byte("incomplete-tail"))
	combined := append(append([]byte{}, a...), b[:3]...)

	f := New()
	got := f.Feed(combined)
	if len(got) != 1 || string(got[0]) != "complete" {
		t.Fatalf("got %v, want exactly [\"complete\"]", got)
	}

	got = f.Feed(b[3:])
	if len(got) != 1 || string(got[0]) != "incomplete-tail" {
		t.Fatalf("got %v, want exactly [\"incomplete-tail\"]", got)
	}
}
