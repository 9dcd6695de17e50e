package plan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidHostSpec = errors.New("invalid HostSpec")

// HostSpec describes a host that can run Slots peers.
type HostSpec struct {
	IPv4       uint32
	Slots      int
	PublicAddr string
}

var DefaultHostSpec = HostSpec{
	IPv4:       MustParseIPv4(`127.0.0.1`),
	Slots:      4,
	PublicAddr: `127.0.0.1`,
}

var DefaultHostList = HostList{DefaultHostSpec}

func (h HostSpec) String() string {
	if h.PublicAddr == FormatIPv4(h.IPv4) {
		return fmt.Sprintf("%s:%d", FormatIPv4(h.IPv4), h.Slots)
	}
	return fmt.Sprintf("%s:%d:%s", FormatIPv4(h.IPv4), h.Slots, h.PublicAddr)
}

// ParseHostSpec parses <internal IP>[:<nslots>[:<public addr>]]
func ParseHostSpec(spec string) (*HostSpec, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return nil, ErrInvalidHostSpec
	}
	ipv4, err := ParseIPv4(parts[0])
	if err != nil {
		return nil, err
	}
	h := HostSpec{IPv4: ipv4, Slots: 1, PublicAddr: parts[0]}
	if len(parts) > 1 {
		slots, err := strconv.Atoi(parts[1])
		if err != nil || slots < 0 {
			return nil, ErrInvalidHostSpec
		}
		h.Slots = slots
	}
	if len(parts) > 2 {
		h.PublicAddr = parts[2]
	}
	return &h, nil
}

type HostList []HostSpec

func (hl HostList) String() string {
	var ss []string
	for _, h := range hl {
		ss = append(ss, h.String())
	}
	return strings.Join(ss, ",")
}

// Set implements flag.Value
func (hl *HostList) Set(val string) error {
	value, err := ParseHostList(val)
	if err != nil {
		return err
	}
	*hl = value
	return nil
}

func ParseHostList(hostlist string) (HostList, error) {
	var hl HostList
	if len(hostlist) == 0 {
		return hl, nil
	}
	for _, h := range strings.Split(hostlist, ",") {
		spec, err := ParseHostSpec(h)
		if err != nil {
			return nil, err
		}
		hl = append(hl, *spec)
	}
	return hl, nil
}

func (hl HostList) Cap() int {
	var cap int
	for _, h := range hl {
		cap += h.Slots
	}
	return cap
}

func (hl HostList) LookupPublicAddr(ipv4 uint32) (string, bool) {
	for _, h := range hl {
		if h.IPv4 == ipv4 {
			return h.PublicAddr, true
		}
	}
	return "", false
}

func (hl HostList) genPeerList(np int, pr PortRange) PeerList {
	var pl PeerList
	for _, host := range hl {
		for j := 0; j < host.Slots; j++ {
			id := PeerID{
				IPv4: host.IPv4,
				Port: pr.Begin + uint16(j),
			}
			pl = append(pl, id)
			if len(pl) >= np {
				return pl
			}
		}
	}
	return pl
}

var errNoEnoughCapacity = errors.New("no enough capacity")

// GenPeerList assigns np peers to hosts in order, filling each host's slots before the next.
func (hl HostList) GenPeerList(np int, pr PortRange) (PeerList, error) {
	if hl.Cap() < np {
		return nil, fmt.Errorf("%w: %d slots for %d peers", errNoEnoughCapacity, hl.Cap(), np)
	}
	for _, h := range hl {
		if pr.Cap() < h.Slots {
			return nil, fmt.Errorf("%w: port range %s for %d slots", errNoEnoughCapacity, pr, h.Slots)
		}
	}
	return hl.genPeerList(np, pr), nil
}

// GenRunnerList returns one runner per host, all listening on port.
func (hl HostList) GenRunnerList(port uint16) PeerList {
	var pl PeerList
	for _, h := range hl {
		pl = append(pl, PeerID{IPv4: h.IPv4, Port: port})
	}
	return pl
}
