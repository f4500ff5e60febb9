package transmit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lockoutlabs/bbuzz-go/mutate"
)

type fakeEngine struct {
	results []mutate.Result
	errAt   int // -1 means never
	i       int
}

func (f *fakeEngine) Get() (mutate.Result, error) {
	if f.errAt >= 0 && f.i == f.errAt {
		f.i++
		return mutate.Result{}, errors.New("boom")
	}
	if f.i >= len(f.results) {
		return mutate.Result{Kind: mutate.ResultEndOfAll}, nil
	}
	r := f.results[f.i]
	f.i++
	return r, nil
}

type fakeSender struct {
	sent    [][]byte
	killed  int
	sendErr error
}

func (s *fakeSender) Create(iface string) error { return nil }
func (s *fakeSender) Send(data []byte) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, append([]byte(nil), data...))
	return nil
}
func (s *fakeSender) Kill() error {
	s.killed++
	return nil
}

func payloadResult(b ...byte) mutate.Result {
	return mutate.Result{Kind: mutate.ResultPayload, Bytes: b}
}

func TestFuzzSendsEveryCandidateThenKillsOnce(t *testing.T) {
	engine := &fakeEngine{
		errAt: -1,
		results: []mutate.Result{
			payloadResult(0x01),
			{Kind: mutate.ResultEndOfStatic},
			payloadResult(0x02),
		},
	}
	sender := &fakeSender{}
	d := New(time.Millisecond)

	if err := d.Fuzz(context.Background(), engine, sender); err != nil {
		t.Fatalf("Fuzz: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d candidates, want 2", len(sender.sent))
	}
	if sender.sent[0][0] != 0x01 || sender.sent[1][0] != 0x02 {
		t.Fatalf("unexpected sent payloads: %v", sender.sent)
	}
	if sender.killed != 1 {
		t.Fatalf("killed %d times, want exactly 1", sender.killed)
	}
}

func TestFuzzEndOfStaticDoesNotSendOrCountAsCandidate(t *testing.T) {
	engine := &fakeEngine{
		errAt: -1,
		results: []mutate.Result{
			{Kind: mutate.ResultEndOfStatic},
			{Kind: mutate.ResultEndOfStatic},
		},
	}
	sender := &fakeSender{}
	d := New(time.Millisecond)

	if err := d.Fuzz(context.Background(), engine, sender); err != nil {
		t.Fatalf("Fuzz: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends, got %v", sender.sent)
	}
	if sender.killed != 1 {
		t.Fatalf("killed %d times, want exactly 1", sender.killed)
	}
}

func TestFuzzEngineErrorTerminatesAndKills(t *testing.T) {
	engine := &fakeEngine{errAt: 0}
	sender := &fakeSender{}
	d := New(time.Millisecond)

	err := d.Fuzz(context.Background(), engine, sender)
	if err == nil {
		t.Fatalf("expected error from Fuzz")
	}
	if sender.killed != 1 {
		t.Fatalf("killed %d times, want exactly 1 even on error", sender.killed)
	}
}

func TestFuzzSendErrorTerminatesAndKills(t *testing.T) {
	engine := &fakeEngine{
		errAt:   -1,
		results: []mutate.Result{payloadResult(0xFF)},
	}
	sender := &fakeSender{sendErr: errors.New("write failed")}
	d := New(time.Millisecond)

	err := d.Fuzz(context.Background(), engine, sender)
	if err == nil {
		t.Fatalf("expected error from Fuzz on send failure")
	}
	if sender.killed != 1 {
		t.Fatalf("killed %d times, want exactly 1 even on send error", sender.killed)
	}
}

func TestFuzzContextCancelDuringPacingTerminatesAndKills(t *testing.T) {
	engine := &fakeEngine{
		errAt: -1,
		results: []mutate.Result{
			payloadResult(0x01),
			payloadResult(0x02),
			payloadResult(0x03),
		},
	}
	sender := &fakeSender{}
	d := New(time.Hour) // pacing long enough that the first Wait, after the first send, blocks

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := d.Fuzz(ctx, engine, sender)
	if err == nil {
		t.Fatalf("expected cancellation error from Fuzz")
	}
	if sender.killed != 1 {
		t.Fatalf("killed %d times, want exactly 1 on cancellation", sender.killed)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly the first send before cancellation, got %d", len(sender.sent))
	}
}
