package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
)

// Ports worth labelling in scan output. The full IANA table is ~6000 TCP
// entries; the engine only names the ones a diagnostics user will actually
// hit, so regeneration stays reviewable.
var curated = []int{
	21, 22, 23, 25, 53, 80, 110, 111, 135, 139, 143, 179, 389, 443, 445,
	465, 514, 587, 631, 636, 873, 993, 995, 1025, 1433, 1723, 2049, 2375,
	3128, 3306, 3389, 5432, 5672, 5900, 6379, 6443, 8080, 8443, 9200,
	11211, 27017,
}

func main() {

	resp, err := http.Get("https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv")
	if err != nil {
		panic(err)
	}

	wanted := make(map[int]bool, len(curated))
	for _, port := range curated {
		wanted[port] = true
	}

	names := map[int]string{}
	reader := csv.NewReader(resp.Body)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}

		if len(record) < 3 || record[2] != "tcp" || record[0] == "" || record[1] == "" {
			continue
		}
		port, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		if _, seen := names[port]; seen || !wanted[port] {
			continue
		}
		names[port] = record[0]
	}

	output, err := os.Create("./scan/known.go")
	if err != nil {
		panic(err)
	}
	defer output.Close()

	output.Write([]byte(`package scan

// data from https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv
var knownPorts = map[int]string{`))

	ports := make([]int, 0, len(names))
	for port := range names {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	for _, port := range ports {
		output.Write([]byte(fmt.Sprintf(`
	%d: "%s",`, port, names[port])))
	}

	output.Write([]byte(`
}
`))
}
