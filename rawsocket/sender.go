// Package rawsocket implements the three raw-socket protocol senders a
// transmission driver hands assembled candidates to: a link-layer
// ("raw2") packet socket that prepends its own Ethernet header, a
// network-layer ("raw3") raw IP socket, and a transport-layer ("raw4")
// socket that can either connect or broadcast.
//
// Grounded in the teacher's p2p/discover UDP transport for the
// create/bind/send/kill lifecycle shape; the actual socket syscalls are
// golang.org/x/sys/unix, the idiomatic Go equivalent of the source's raw
// socket() calls (AF_PACKET/SOCK_RAW, SO_BINDTODEVICE, SO_REUSEADDR,
// SO_BROADCAST, IP_HDRINCL).
package rawsocket

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/lockoutlabs/bbuzz-go/encoding"
	"github.com/lockoutlabs/bbuzz-go/errs"
	"github.com/lockoutlabs/bbuzz-go/internal/blog"
)

// Layer selects which OSI layer the sender synthesises framing at.
type Layer string

// Recognized layers.
const (
	Layer2 Layer = "raw2"
	Layer3 Layer = "raw3"
	Layer4 Layer = "raw4"
)

type state int

const (
	stateNew state = iota
	stateBound
	stateSending
	stateClosed
)

// Options configures a Socket. Which fields are meaningful depends on
// Layer: raw2 reads SourceMAC/DestinationMAC/EtherType; raw3 reads
// DestinationIP/IPVersion; raw4 additionally reads
// Proto/DestinationPort/Broadcast. SourceIP and SourcePort are accepted
// but not read by any layer.
type Options struct {
	SourceMAC      string // colon-hex, e.g. "11:22:33:44:55:66"
	DestinationMAC string
	EtherType      string // hex string "0xNNNN"

	SourceIP      string
	DestinationIP string
	IPVersion     int // 4 or 6

	Proto           int // e.g. unix.IPPROTO_TCP, unix.IPPROTO_UDP
	DestinationPort int
	SourcePort      int
	Broadcast       bool
}

// Socket is a raw-socket sender. Create, Send and Kill are serialized by
// an internal mutex; §5 has a single driver pulling it.
type Socket struct {
	layer Layer
	opts  Options

	mu    sync.Mutex
	state state
	fd    int

	l2Header []byte // precomputed DST‖SRC‖ETHERTYPE, raw2 only
	sendto   unix.Sockaddr // destination for connectionless sends, raw3/raw4 broadcast

	log *blog.Logger
}

// New validates layer-appropriate options and returns an unbound Socket.
func New(layer Layer, opts Options) (*Socket, error) {
	s := &Socket{layer: layer, opts: opts, state: stateNew, log: blog.Default().Component("rawsocket")}

	switch layer {
	case Layer2:
		dst, err := encoding.MACToBytes(opts.DestinationMAC)
		if err != nil {
			return nil, err
		}
		src, err := encoding.MACToBytes(opts.SourceMAC)
		if err != nil {
			return nil, err
		}
		et, err := parseEtherType(opts.EtherType)
		if err != nil {
			return nil, err
		}
		s.l2Header = buildL2Header(dst, src, et)
	case Layer3, Layer4:
		if opts.IPVersion != 4 && opts.IPVersion != 6 {
			return nil, fmt.Errorf("%w: IP_VERSION must be 4 or 6, got %d", errs.ErrSchema, opts.IPVersion)
		}
		if _, err := encoding.IPToBytes(opts.DestinationIP); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized layer %q", errs.ErrSchema, layer)
	}

	return s, nil
}

func parseEtherType(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid ETHER_TYPE %q: %v", errs.ErrMalformed, s, err)
	}
	return uint16(v), nil
}

// buildL2Header assembles the 14-byte link-layer header this sender
// prepends to every outgoing frame: destination MAC, source MAC, then
// the 2-byte ethertype, matching S6's "DST‖SRC‖ETHERTYPE".
func buildL2Header(dstMAC, srcMAC []byte, etherType uint16) []byte {
	h := make([]byte, 0, 14)
	h = append(h, dstMAC...)
	h = append(h, srcMAC...)
	var et [2]byte
	binary.BigEndian.PutUint16(et[:], etherType)
	return append(h, et[:]...)
}

// Create binds the socket to iface. It is idempotent: calling Create
// again on an already-bound (or sending) socket is a no-op, per §4.G's
// "returns the existing handle if already bound".
func (s *Socket) Create(iface string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateNew {
		return nil
	}

	var err error
	switch s.layer {
	case Layer2:
		err = s.createLayer2(iface)
	case Layer3:
		err = s.createLayer3(iface)
	case Layer4:
		err = s.createLayer4(iface)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	s.state = stateBound
	return nil
}

func (s *Socket) createLayer2(iface string) error {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return err
	}
	proto := s.l2Header[12:14]
	protoHost := binary.BigEndian.Uint16(proto)

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(protoHost)))
	if err != nil {
		return err
	}
	addr := &unix.SockaddrLinklayer{
		Protocol: htons(protoHost),
		Ifindex:  ifi.Index,
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return err
	}
	s.fd = fd
	return nil
}

func (s *Socket) createLayer3(iface string) error {
	family := unix.AF_INET
	if s.opts.IPVersion == 6 {
		family = unix.AF_INET6
	}
	fd, err := unix.Socket(family, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return err
	}
	if family == unix.AF_INET {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_HDRINCL, 1); err != nil {
			unix.Close(fd)
			return err
		}
	}
	if err := unix.BindToDevice(fd, iface); err != nil {
		unix.Close(fd)
		return err
	}
	sa, err := ipSockaddr(s.opts.DestinationIP, s.opts.IPVersion, 0)
	if err != nil {
		unix.Close(fd)
		return err
	}
	s.fd = fd
	s.sendto = sa
	return nil
}

func (s *Socket) createLayer4(iface string) error {
	family := unix.AF_INET
	if s.opts.IPVersion == 6 {
		family = unix.AF_INET6
	}
	sockType := unix.SOCK_STREAM
	if s.opts.Broadcast {
		sockType = unix.SOCK_DGRAM
	}
	fd, err := unix.Socket(family, sockType, s.opts.Proto)
	if err != nil {
		return err
	}
	if err := unix.BindToDevice(fd, iface); err != nil {
		unix.Close(fd)
		return err
	}

	if s.opts.Broadcast {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			unix.Close(fd)
			return err
		}
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			unix.Close(fd)
			return err
		}
		sa, err := ipSockaddr(s.opts.DestinationIP, s.opts.IPVersion, s.opts.DestinationPort)
		if err != nil {
			unix.Close(fd)
			return err
		}
		s.sendto = sa
	} else {
		sa, err := ipSockaddr(s.opts.DestinationIP, s.opts.IPVersion, s.opts.DestinationPort)
		if err != nil {
			unix.Close(fd)
			return err
		}
		if err := unix.Connect(fd, sa); err != nil {
			unix.Close(fd)
			return err
		}
	}
	s.fd = fd
	return nil
}

func ipSockaddr(ip string, version, port int) (unix.Sockaddr, error) {
	b, err := encoding.IPToBytes(ip)
	if err != nil {
		return nil, err
	}
	if version == 6 {
		sa := &unix.SockaddrInet6{Port: port}
		copy(sa.Addr[:], b)
		return sa, nil
	}
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], b)
	return sa, nil
}

func htons(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// Send transmits data, prepending link-layer framing on raw2. It
// requires the socket to be BOUND or SENDING; calling it from any other
// state is an I/O error, per §4.G's state machine.
func (s *Socket) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateBound && s.state != stateSending {
		return fmt.Errorf("%w: send on a socket that is not bound", errs.ErrIO)
	}
	s.state = stateSending

	var err error
	switch s.layer {
	case Layer2:
		frame := make([]byte, 0, len(s.l2Header)+len(data))
		frame = append(frame, s.l2Header...)
		frame = append(frame, data...)
		_, err = unix.Write(s.fd, frame)
	case Layer3:
		err = unix.Sendto(s.fd, data, 0, s.sendto)
	case Layer4:
		if s.opts.Broadcast {
			err = unix.Sendto(s.fd, data, 0, s.sendto)
		} else {
			_, err = unix.Write(s.fd, data)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return nil
}

// Kill is always legal and drops the socket to CLOSED, closing the file
// descriptor exactly once.
func (s *Socket) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return nil
	}
	if s.state != stateNew {
		if err := unix.Close(s.fd); err != nil {
			s.state = stateClosed
			return fmt.Errorf("%w: %v", errs.ErrIO, err)
		}
	}
	s.state = stateClosed
	return nil
}
