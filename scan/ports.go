package scan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var DefaultPorts []int

func init() {
	for port := range knownPorts {
		DefaultPorts = append(DefaultPorts, port)
	}
	sort.Ints(DefaultPorts)
}

func DescribePort(port int) string {
	if s, ok := knownPorts[port]; ok {
		return s
	}

	return ""
}

// ParsePortSpec expands a comma separated selection such as
// "22,80,8080-8090" into a port list. Validation and dedup happen later in
// NormalizePorts so literal lists and parsed specs go through the same checks.
func ParsePortSpec(selection string) ([]int, error) {
	if selection == "" {
		return nil, nil
	}
	ports := []int{}
	ranges := strings.Split(selection, ",")
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if strings.Contains(r, "-") {
			parts := strings.Split(r, "-")
			if len(parts) != 2 {
				return nil, fmt.Errorf("%w: invalid port selection segment: '%s'", ErrInvalidInput, r)
			}

			p1, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("%w: invalid port number: '%s'", ErrInvalidInput, parts[0])
			}

			p2, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: invalid port number: '%s'", ErrInvalidInput, parts[1])
			}

			if p1 > p2 {
				return nil, fmt.Errorf("%w: invalid port range: %d-%d", ErrInvalidInput, p1, p2)
			}

			for i := p1; i <= p2; i++ {
				ports = append(ports, i)
			}

		} else {
			port, err := strconv.Atoi(r)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid port number: '%s'", ErrInvalidInput, r)
			}
			ports = append(ports, port)
		}
	}
	return ports, nil
}

// NormalizePorts validates a requested port list, removes duplicates and
// returns it sorted ascending. maxPorts caps the deduplicated size; zero
// means no cap. The scan report is total over exactly the returned set.
func NormalizePorts(ports []int, maxPorts int) ([]int, error) {
	seen := make(map[int]struct{}, len(ports))
	out := make([]int, 0, len(ports))
	for _, port := range ports {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidInput, port)
		}
		if _, ok := seen[port]; ok {
			continue
		}
		seen[port] = struct{}{}
		out = append(out, port)
	}
	if maxPorts > 0 && len(out) > maxPorts {
		return nil, fmt.Errorf("%w: %d ports requested, limit is %d", ErrInvalidInput, len(out), maxPorts)
	}
	sort.Ints(out)
	return out, nil
}
