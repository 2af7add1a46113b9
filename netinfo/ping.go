package netinfo

import (
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/jackpal/gateway"
)

// GatewayReachable pings the default gateway once, unprivileged. Used as a
// startup diagnostic: an unreachable gateway usually means the QR link will
// not work from another device, but it never blocks startup.
func GatewayReachable(timeout time.Duration) (bool, error) {
	gwIP, err := gateway.DiscoverGateway()
	if err != nil {
		return false, fmt.Errorf("failed to discover gateway: %w", err)
	}
	pinger, err := probing.NewPinger(gwIP.String())
	if err != nil {
		return false, err
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		return false, err
	}
	return pinger.Statistics().PacketsRecv > 0, nil
}
