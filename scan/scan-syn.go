package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/routing"
	"github.com/mostlygeek/arp"
	"github.com/phayes/freeport"
	log "github.com/sirupsen/logrus"
)

// SynScanner probes ports with half-open SYN packets instead of full
// connects. It requires raw packet access (root) and an IPv4 target on a
// routable interface. Classification: SYN-ACK means open, RST means closed,
// silence inside the response window means filtered.
type SynScanner struct {
	MaxPorts     int
	LivenessPort int

	perPortTimeout   time.Duration
	totalBudget      time.Duration
	serializeOptions gopacket.SerializeOptions
}

func NewSynScanner(perPortTimeout, totalBudget time.Duration) *SynScanner {
	return &SynScanner{
		LivenessPort:   80,
		perPortTimeout: perPortTimeout,
		totalBudget:    totalBudget,
		serializeOptions: gopacket.SerializeOptions{
			FixLengths:       true,
			ComputeChecksums: true,
		},
	}
}

type synResponse struct {
	port  int
	state PortState
	at    time.Time
}

func (s *SynScanner) Scan(ctx context.Context, target Target, ports []int) (*Report, error) {

	ports, err := NormalizePorts(ports, s.MaxPorts)
	if err != nil {
		return nil, err
	}

	if target.Family != FamilyIPv4 {
		return nil, fmt.Errorf("%w: syn scan supports IPv4 targets only", ErrInvalidInput)
	}
	ip := net.ParseIP(target.Addr).To4()
	if ip == nil {
		return nil, fmt.Errorf("%w: '%s' is not an IPv4 address", ErrInvalidInput, target.Addr)
	}

	report := NewReport(target)

	probeOnly := len(ports) == 0
	if probeOnly {
		ports = []int{s.LivenessPort}
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.totalBudget)
	defer cancel()

	results, err := s.scanHost(scanCtx, ip, ports)
	if err != nil {
		return nil, err
	}

	if probeOnly {
		probe := results[0]
		report.Probe = &probe
		report.finish()
		report.Reachable = probe.State == PortOpen || probe.State == PortClosed
		return report, nil
	}

	report.Results = results
	return report.finish(), nil
}

// scanHost sends one SYN per port, reads responses until the window closes,
// then materializes every unanswered port so the result set stays total.
func (s *SynScanner) scanHost(ctx context.Context, ip net.IP, ports []int) ([]PortResult, error) {

	router, err := routing.New()
	if err != nil {
		return nil, err
	}
	networkInterface, gateway, srcIP, err := router.Route(ip)
	if err != nil {
		return nil, err
	}

	handle, err := pcap.OpenLive(networkInterface.Name, 65535, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	rawPort, err := freeport.GetFreePort()
	if err != nil {
		return nil, err
	}

	hwaddr, err := s.getHwAddr(ip, gateway, srcIP, networkInterface)
	if err != nil {
		return nil, err
	}

	eth := layers.Ethernet{
		SrcMAC:       networkInterface.HardwareAddr,
		DstMAC:       hwaddr,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip4 := layers.IPv4{
		SrcIP:    srcIP,
		DstIP:    ip,
		Version:  4,
		TTL:      255,
		Protocol: layers.IPProtocolTCP,
	}
	tcp := layers.TCP{
		SrcPort: layers.TCPPort(rawPort),
		DstPort: 0,
		SYN:     true,
	}
	tcp.SetNetworkLayerForChecksum(&ip4)

	responseChan := make(chan synResponse, len(ports))
	ipFlow := gopacket.NewFlow(layers.EndpointIPv4, ip, srcIP)

	go s.listen(ctx, handle, ipFlow, rawPort, responseChan)

	sentAt := make(map[int]time.Time, len(ports))
	for _, port := range ports {
		tcp.DstPort = layers.TCPPort(port)
		sentAt[port] = time.Now()
		if err := s.send(handle, &eth, &ip4, &tcp); err != nil {
			log.Debugf("SYN send to port %d failed: %s", port, err)
		}
	}

	// The handle close ends the listen goroutine, whether the response
	// window or the overall budget expires first.
	timer := time.AfterFunc(s.perPortTimeout, func() { handle.Close() })
	defer timer.Stop()
	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			handle.Close()
		case <-stopWatch:
		}
	}()

	pending := make(map[int]struct{}, len(ports))
	for _, port := range ports {
		pending[port] = struct{}{}
	}

	results := make([]PortResult, 0, len(ports))
	for response := range responseChan {
		if _, ok := pending[response.port]; !ok {
			continue
		}
		delete(pending, response.port)
		result := PortResult{Port: response.port, State: response.state}
		if response.state == PortOpen {
			result.Latency = response.at.Sub(sentAt[response.port])
		}
		results = append(results, result)
	}

	kind := KindTimeout
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = KindBudgetExceeded
	} else if errors.Is(ctx.Err(), context.Canceled) {
		kind = KindCancelled
	}
	for port := range pending {
		results = append(results, PortResult{Port: port, State: PortFiltered, ErrorKind: kind})
	}

	return results, nil
}

// listen decodes replies off the wire until the handle is closed, forwarding
// at most the raw facts; dedup against the pending set happens in the caller.
func (s *SynScanner) listen(ctx context.Context, handle *pcap.Handle, ipFlow gopacket.Flow, rawPort int, responseChan chan<- synResponse) {

	defer close(responseChan)

	eth := &layers.Ethernet{}
	ip4 := &layers.IPv4{}
	tcp := &layers.TCP{}

	parser := gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet, eth, ip4, tcp)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, _, err := handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired || err == io.EOF {
			return
		} else if err != nil {
			// Closing the handle surfaces as a read error here.
			log.Debugf("Packet read ended: %s", err)
			return
		}

		decoded := []gopacket.LayerType{}
		if err := parser.DecodeLayers(data, &decoded); err != nil {
			continue
		}
		match := false
		for _, layerType := range decoded {
			if layerType == layers.LayerTypeIPv4 && ip4.NetworkFlow() == ipFlow {
				match = true
			}
		}
		if !match || tcp.DstPort != layers.TCPPort(rawPort) {
			continue
		}

		if tcp.SYN && tcp.ACK {
			responseChan <- synResponse{port: int(tcp.SrcPort), state: PortOpen, at: time.Now()}
		} else if tcp.RST {
			responseChan <- synResponse{port: int(tcp.SrcPort), state: PortClosed, at: time.Now()}
		}
	}
}

// getHwAddr finds the MAC to address frames to: the target itself on the
// local segment, otherwise the gateway. The OS ARP cache is tried before
// putting a request on the wire.
func (s *SynScanner) getHwAddr(ip net.IP, gateway net.IP, srcIP net.IP, networkInterface *net.Interface) (net.HardwareAddr, error) {

	arpDst := ip
	if gateway != nil {
		arpDst = gateway
	}

	if macStr := arp.Search(arpDst.String()); macStr != "00:00:00:00:00:00" {
		if mac, err := net.ParseMAC(macStr); err == nil {
			return mac, nil
		}
	}

	handle, err := pcap.OpenLive(networkInterface.Name, 65536, true, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	start := time.Now()

	eth := layers.Ethernet{
		SrcMAC:       networkInterface.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	request := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(networkInterface.HardwareAddr),
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(arpDst.To4()),
	}

	if err := s.send(handle, &eth, &request); err != nil {
		return nil, err
	}

	for {
		if time.Since(start) > s.perPortTimeout {
			return nil, errors.New("timeout getting ARP reply")
		}
		data, _, err := handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			continue
		} else if err != nil {
			return nil, err
		}
		packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
		if arpLayer := packet.Layer(layers.LayerTypeARP); arpLayer != nil {
			reply := arpLayer.(*layers.ARP)
			if net.IP(reply.SourceProtAddress).Equal(arpDst) {
				return net.HardwareAddr(reply.SourceHwAddress), nil
			}
		}
	}
}

func (s *SynScanner) send(handle *pcap.Handle, l ...gopacket.SerializableLayer) error {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, s.serializeOptions, l...); err != nil {
		return err
	}
	return handle.WritePacketData(buf.Bytes())
}
