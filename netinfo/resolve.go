// Package netinfo resolves which local address the delivery server should
// bind and advertise. The core only consumes the final address.
package netinfo

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"
)

// ResolveBindAddress picks the IPv4 address to bind. With an interface name
// it uses that interface's first IPv4. Without one it finds the interface
// facing the default gateway, since that is the one a phone on the same LAN
// can reach, falling back to the first global-unicast IPv4 on the host.
func ResolveBindAddress(interfaceName string) (string, error) {
	if interfaceName != "" {
		return interfaceIPv4(interfaceName)
	}

	if gwIP, err := gateway.DiscoverGateway(); err == nil {
		if ip, err := localIPForGateway(gwIP); err == nil {
			return ip.String(), nil
		}
	}
	return firstGlobalIPv4()
}

func interfaceIPv4(name string) (string, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", fmt.Errorf("interface %q not found: %w", name, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return "", fmt.Errorf("failed to get addresses for %q: %w", name, err)
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ipv4 := ipnet.IP.To4(); ipv4 != nil && !ipv4.IsLoopback() {
			return ipv4.String(), nil
		}
	}
	return "", fmt.Errorf("interface %q has no IPv4 address", name)
}

// localIPForGateway finds the local IPv4 whose subnet contains the gateway.
func localIPForGateway(gwIP net.IP) (net.IP, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ipv4 := ipnet.IP.To4()
			if ipv4 == nil || ipv4.IsLoopback() || !ipv4.IsGlobalUnicast() {
				continue
			}
			if ipnet.Contains(gwIP) {
				return ipv4, nil
			}
		}
	}
	return nil, fmt.Errorf("no local IPv4 address in the same subnet as gateway %s", gwIP)
}

func firstGlobalIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("failed to list addresses: %w", err)
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ipv4 := ipnet.IP.To4(); ipv4 != nil && ipv4.IsGlobalUnicast() && !ipv4.IsLoopback() {
			return ipv4.String(), nil
		}
	}
	return "", fmt.Errorf("no usable IPv4 address found")
}
