package rawsocket

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// TestBuildL2HeaderS6 reproduces the worked example S6: src
// 11:22:33:44:55:66, dst AA:BB:CC:DD:EE:FF, ethertype 0x86DD must produce
// the 14-byte header AA BB CC DD EE FF 11 22 33 44 55 66 86 DD.
func TestBuildL2HeaderS6(t *testing.T) {
	dst := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	src := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	got := buildL2Header(dst, src, 0x86DD)
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x86, 0xDD}
	if !bytes.Equal(got, want) {
		t.Fatalf("buildL2Header = % X, want % X", got, want)
	}
}

func TestBuildL2HeaderThenPayloadMatchesS6(t *testing.T) {
	dst := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	src := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	header := buildL2Header(dst, src, 0x86DD)
	frame := append(append([]byte(nil), header...), 0xAA, 0xBB)
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x86, 0xDD, 0xAA, 0xBB}
	if !bytes.Equal(frame, want) {
		t.Fatalf("frame = % X, want % X", frame, want)
	}
}

func TestParseEtherType(t *testing.T) {
	v, err := parseEtherType("0x86DD")
	if err != nil {
		t.Fatalf("parseEtherType: %v", err)
	}
	if v != 0x86DD {
		t.Fatalf("got %#x, want 0x86DD", v)
	}
}

func TestParseEtherTypeMalformed(t *testing.T) {
	if _, err := parseEtherType("not-hex"); !errors.Is(err, errs.ErrMalformed) {
		t.Fatalf("expected errs.ErrMalformed, got %v", err)
	}
}

func TestNewLayer2ValidatesMACs(t *testing.T) {
	_, err := New(Layer2, Options{
		SourceMAC:      "not-a-mac",
		DestinationMAC: "AA:BB:CC:DD:EE:FF",
		EtherType:      "0x0800",
	})
	if !errors.Is(err, errs.ErrMalformed) {
		t.Fatalf("expected errs.ErrMalformed, got %v", err)
	}
}

func TestNewLayer3RequiresValidIPVersion(t *testing.T) {
	_, err := New(Layer3, Options{DestinationIP: "10.0.0.1", IPVersion: 5})
	if !errors.Is(err, errs.ErrSchema) {
		t.Fatalf("expected errs.ErrSchema, got %v", err)
	}
}

func TestSendBeforeCreateIsIOError(t *testing.T) {
	s, err := New(Layer2, Options{
		SourceMAC:      "11:22:33:44:55:66",
		DestinationMAC: "AA:BB:CC:DD:EE:FF",
		EtherType:      "0x86DD",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Send([]byte{0x01}); !errors.Is(err, errs.ErrIO) {
		t.Fatalf("expected errs.ErrIO sending before Create, got %v", err)
	}
}

func TestKillBeforeCreateIsLegal(t *testing.T) {
	s, err := New(Layer2, Options{
		SourceMAC:      "11:22:33:44:55:66",
		DestinationMAC: "AA:BB:CC:DD:EE:FF",
		EtherType:      "0x86DD",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Kill(); err != nil {
		t.Fatalf("Kill before Create should be legal, got %v", err)
	}
	if s.state != stateClosed {
		t.Fatalf("expected state CLOSED after Kill, got %v", s.state)
	}
}

func TestKillIsIdempotent(t *testing.T) {
	s, err := New(Layer2, Options{
		SourceMAC:      "11:22:33:44:55:66",
		DestinationMAC: "AA:BB:CC:DD:EE:FF",
		EtherType:      "0x86DD",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if err := s.Kill(); err != nil {
		t.Fatalf("second Kill should stay legal, got %v", err)
	}
}
