package main

import (
	"fmt"
	"net"
	"time"

	"github.com/go-ping/ping"
)

// StatusInfo is what the network status panel shows. Collected through
// the same TimedCache discipline as the remote providers, since the
// ICMP probe blocks for up to its timeout.
type StatusInfo struct {
	LocalIP   string
	PingHost  string
	PingMs    int64
	Reachable bool
}

type statusClient struct {
	pingHost string
}

func newStatusClient(pingHost string) *statusClient {
	return &statusClient{pingHost: pingHost}
}

// FetchStatus gathers local addressing and link latency. An
// unreachable probe host is a valid result, not an error; only a
// misconfigured prober fails the fetch.
func (s *statusClient) FetchStatus() (StatusInfo, error) {
	info := StatusInfo{PingHost: s.pingHost, PingMs: -1}

	if ip, err := getLocalIPv4(); err == nil {
		info.LocalIP = ip
	} else {
		info.LocalIP = "N/A"
	}

	rtt, err := pingICMP(s.pingHost)
	if err == nil {
		info.PingMs = rtt
		info.Reachable = true
	}
	return info, nil
}

// pingICMP sends a single ICMP echo and returns the round trip in
// milliseconds. Privileged mode, the daemon runs as root on the unit.
func pingICMP(host string) (int64, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return 0, err
	}
	pinger.SetPrivileged(true)
	pinger.Count = 1
	pinger.Timeout = 2 * time.Second

	if err := pinger.Run(); err != nil {
		return 0, err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, fmt.Errorf("no reply from %s", host)
	}
	return int64(stats.AvgRtt / time.Millisecond), nil
}

// getLocalIPv4 returns the first global unicast IPv4 address on an
// interface that is up and not loopback.
func getLocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil && ipnet.IP.IsGlobalUnicast() {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", fmt.Errorf("no usable IPv4 interface found")
}
