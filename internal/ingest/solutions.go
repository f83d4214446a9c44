package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
)

// ParseSolutions parses a best-known solutions document. Each case names a
// request, lists the services of the winning chain (one for discovery
// benchmarks, several for composition benchmarks), and carries the achieved
// utility.
func ParseSolutions(data []byte) ([]benchmark.Solution, error) {
	dec := newXMLDecoder(data)
	var solutions []benchmark.Solution
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse solutions: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "case" {
			continue
		}
		sol, err := parseCase(dec, start)
		if err != nil {
			return nil, fmt.Errorf("parse solutions: %w", err)
		}
		solutions = append(solutions, sol)
	}
	return solutions, nil
}

// parseCase walks one case subtree, collecting service references at any
// nesting depth and the first utility element.
func parseCase(dec *xml.Decoder, start xml.StartElement) (benchmark.Solution, error) {
	sol := benchmark.Solution{RequestID: attrValue(start, "name")}
	if sol.RequestID == "" {
		sol.RequestID = "unknown"
	}

	utilitySeen := false
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return sol, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "service":
				if id := strings.TrimSpace(attrValue(t, "name")); id != "" {
					sol.ServiceIDs = append(sol.ServiceIDs, id)
				}
			case "utility":
				if !utilitySeen {
					utilitySeen = true
					if v, err := strconv.ParseFloat(attrValue(t, "value"), 64); err == nil {
						sol.Utility = v
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return sol, nil
}
