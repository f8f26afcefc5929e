package funcs

import (
	"fmt"
	"math/big"
	"net"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareCIDR() {
	r.declare(Definition{Name: "netmask", Namespace: []string{"cidr"}, Params: []ParamType{TypeString}, Impl: cidrNetmask})
	r.declare(Definition{Name: "range", Namespace: []string{"cidr"}, Params: []ParamType{TypeString}, Impl: cidrRange})
	r.declare(Definition{Name: "host", Namespace: []string{"cidr"}, Params: []ParamType{TypeString, TypeNumber}, Impl: cidrHost})
	r.declare(Definition{Name: "subnets", Namespace: []string{"cidr"}, Params: []ParamType{TypeString, TypeNumber}, Impl: cidrSubnets})
}

// parsePrefix returns the canonical network address bytes, the prefix
// length and the address width in bits (32 or 128).
func parsePrefix(prefix string) (ip []byte, ones, bits int, err error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	ones, bits = network.Mask.Size()
	return network.IP, ones, bits, nil
}

func ipToInt(ip []byte) *big.Int {
	return new(big.Int).SetBytes(ip)
}

func intToIP(n *big.Int, byteLen int) net.IP {
	b := n.Bytes()
	if len(b) > byteLen {
		b = b[len(b)-byteLen:]
	}
	out := make([]byte, byteLen)
	copy(out[byteLen-len(b):], b)
	return net.IP(out)
}

func cidrNetmask(args []value.Value) (value.Value, error) {
	_, ones, bits, err := parsePrefix(args[0].AsString())
	if err != nil {
		return value.Value{}, err
	}
	mask := net.CIDRMask(ones, bits)
	return value.String(net.IP(mask).String()), nil
}

// cidrRange returns [network, broadcast] for the prefix.
func cidrRange(args []value.Value) (value.Value, error) {
	ip, ones, bits, err := parsePrefix(args[0].AsString())
	if err != nil {
		return value.Value{}, err
	}
	base := ipToInt(ip)
	size := new(big.Int).Lsh(big.NewInt(1), uint(bits-ones))
	last := new(big.Int).Add(base, new(big.Int).Sub(size, big.NewInt(1)))

	return value.Array(
		value.String(intToIP(base, len(ip)).String()),
		value.String(intToIP(last, len(ip)).String()),
	), nil
}

// cidrHost returns the host at the given numeric offset from the network
// address.
func cidrHost(args []value.Value) (value.Value, error) {
	ip, ones, bits, err := parsePrefix(args[0].AsString())
	if err != nil {
		return value.Value{}, err
	}
	hostNum := args[1].AsNumber().Int64()
	if hostNum < 0 {
		return value.Value{}, fmt.Errorf("host number must not be negative")
	}

	size := new(big.Int).Lsh(big.NewInt(1), uint(bits-ones))
	offset := big.NewInt(hostNum)
	if offset.Cmp(size) >= 0 {
		return value.Value{}, fmt.Errorf("host number %d is out of range for /%d", hostNum, ones)
	}

	host := new(big.Int).Add(ipToInt(ip), offset)
	return value.String(intToIP(host, len(ip)).String()), nil
}

// cidrSubnets splits the prefix into 2^newbits consecutive subnets in
// ascending order. Fails when the new prefix length exceeds the address
// width.
func cidrSubnets(args []value.Value) (value.Value, error) {
	ip, ones, bits, err := parsePrefix(args[0].AsString())
	if err != nil {
		return value.Value{}, err
	}
	newbits := args[1].AsNumber().Int64()
	if newbits < 0 {
		return value.Value{}, fmt.Errorf("newbits must not be negative")
	}
	newLen := int64(ones) + newbits
	if newLen > int64(bits) {
		return value.Value{}, fmt.Errorf("new prefix length exceeds %d bits", bits)
	}
	// 2^newbits subnets are enumerated eagerly; keep the result bounded.
	if newbits > 20 {
		return value.Value{}, fmt.Errorf("newbits %d would enumerate too many subnets", newbits)
	}

	base := ipToInt(ip)
	step := new(big.Int).Lsh(big.NewInt(1), uint(int64(bits)-newLen))
	count := int64(1) << uint(newbits)

	out := make([]value.Value, 0, count)
	addr := new(big.Int).Set(base)
	for i := int64(0); i < count; i++ {
		out = append(out, value.String(fmt.Sprintf("%s/%d", intToIP(addr, len(ip)), newLen)))
		addr = new(big.Int).Add(addr, step)
	}
	return value.Array(out...), nil
}
