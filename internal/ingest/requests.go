package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// challengeMetricOrder is the fixed column order of the comma-separated QoS
// line in WSChallenge routine elements.
var challengeMetricOrder = []types.Metric{
	types.MetricResponseTime,
	types.MetricAvailability,
	types.MetricThroughput,
	types.MetricSuccessability,
	types.MetricReliability,
	types.MetricCompliance,
	types.MetricBestPractices,
	types.MetricLatency,
	types.MetricDocumentation,
}

var metricByKey = map[string]types.Metric{
	"ResponseTime":   types.MetricResponseTime,
	"Availability":   types.MetricAvailability,
	"Throughput":     types.MetricThroughput,
	"Successability": types.MetricSuccessability,
	"Reliability":    types.MetricReliability,
	"Compliance":     types.MetricCompliance,
	"BestPractices":  types.MetricBestPractices,
	"Latency":        types.MetricLatency,
	"Documentation":  types.MetricDocumentation,
}

type routineDoc struct {
	Name      string `xml:"name,attr"`
	Provided  string `xml:"Provided"`
	Resultant string `xml:"Resultant"`
	QoS       string `xml:"QoS"`
}

type requestQoSEntry struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type requestDoc struct {
	ID        string           `xml:"id,attr"`
	Name      string           `xml:"name,attr"`
	Provided  string           `xml:"Provided"`
	Resultant string           `xml:"Resultant"`
	QoSBlock  *requestQoSBlock `xml:"QoS"`
}

type requestQoSBlock struct {
	Entries []requestQoSEntry `xml:",any"`
}

// ParseRequests parses a composition request document. WSChallenge files
// hold DiscoveryRoutine or CompositionRoutine elements with comma-separated
// parameter lists and a positional QoS line; standard files hold Request
// elements with semicolon-separated parameters and per-metric QoS children.
// Routines without a Resultant are dropped: a request with no target can
// never compose.
func ParseRequests(data []byte) ([]*types.Request, error) {
	dec := newXMLDecoder(data)
	root, err := firstElement(dec)
	if err != nil {
		return nil, fmt.Errorf("parse requests: %w", err)
	}
	if root.Name.Local == "WSChallenge" {
		return parseChallengeRequests(dec)
	}
	return parseStandardRequests(dec, root)
}

func firstElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// parseChallengeRequests prefers DiscoveryRoutine elements; a file carries
// either discovery or composition routines, never both meaningfully.
func parseChallengeRequests(dec *xml.Decoder) ([]*types.Request, error) {
	var discovery, composition []routineDoc
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse requests: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "DiscoveryRoutine":
			var routine routineDoc
			if err := dec.DecodeElement(&routine, &start); err != nil {
				return nil, fmt.Errorf("parse requests: %w", err)
			}
			discovery = append(discovery, routine)
		case "CompositionRoutine":
			var routine routineDoc
			if err := dec.DecodeElement(&routine, &start); err != nil {
				return nil, fmt.Errorf("parse requests: %w", err)
			}
			composition = append(composition, routine)
		}
	}

	routines := discovery
	if len(routines) == 0 {
		routines = composition
	}

	requests := make([]*types.Request, 0, len(routines))
	for _, routine := range routines {
		resultant := strings.TrimSpace(routine.Resultant)
		if resultant == "" {
			continue
		}
		id := routine.Name
		if id == "" {
			id = "unknown"
		}
		requests = append(requests, &types.Request{
			ID:          id,
			Provided:    splitParams(routine.Provided, ","),
			Resultant:   resultant,
			Constraints: positionalConstraints(routine.QoS),
		})
	}
	return requests, nil
}

func parseStandardRequests(dec *xml.Decoder, root xml.StartElement) ([]*types.Request, error) {
	var requests []*types.Request
	appendRequest := func(doc requestDoc) {
		resultant := strings.TrimSpace(doc.Resultant)
		if resultant == "" {
			return
		}
		id := doc.ID
		if id == "" {
			id = doc.Name
		}
		if id == "" {
			id = "unknown"
		}
		var constraints []types.Constraint
		if doc.QoSBlock != nil {
			constraints = taggedConstraints(doc.QoSBlock.Entries)
		}
		requests = append(requests, &types.Request{
			ID:          id,
			Provided:    splitParams(doc.Provided, ";"),
			Resultant:   resultant,
			Constraints: constraints,
		})
	}

	// The root element itself may be a single bare Request.
	if root.Name.Local == "Request" {
		var doc requestDoc
		if err := dec.DecodeElement(&doc, &root); err != nil {
			return nil, fmt.Errorf("parse requests: %w", err)
		}
		appendRequest(doc)
		return requests, nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse requests: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Request" {
			continue
		}
		var doc requestDoc
		if err := dec.DecodeElement(&doc, &start); err != nil {
			return nil, fmt.Errorf("parse requests: %w", err)
		}
		appendRequest(doc)
	}
	return requests, nil
}

func splitParams(raw, sep string) []string {
	var params []string
	for _, piece := range strings.Split(raw, sep) {
		if piece = strings.TrimSpace(piece); piece != "" {
			params = append(params, piece)
		}
	}
	return params
}

// positionalConstraints maps the comma-separated WSChallenge QoS line onto
// constraints by column position. Zero columns mean "unconstrained" in the
// dataset and produce no constraint.
func positionalConstraints(raw string) []types.Constraint {
	var constraints []types.Constraint
	column := 0
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if column >= len(challengeMetricOrder) {
			break
		}
		metric := challengeMetricOrder[column]
		column++
		value, err := strconv.ParseFloat(piece, 64)
		if err != nil || value == 0 {
			continue
		}
		constraints = append(constraints, types.Constraint{
			Metric:     metric,
			Comparator: types.DefaultComparator(metric),
			Threshold:  value,
		})
	}
	return constraints
}

// taggedConstraints maps per-metric QoS child elements onto constraints.
// Unknown tags and zero values are skipped.
func taggedConstraints(entries []requestQoSEntry) []types.Constraint {
	var constraints []types.Constraint
	for _, entry := range entries {
		metric, ok := metricByKey[entry.XMLName.Local]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(entry.Text), 64)
		if err != nil || value == 0 {
			continue
		}
		constraints = append(constraints, types.Constraint{
			Metric:     metric,
			Comparator: types.DefaultComparator(metric),
			Threshold:  value,
		})
	}
	return constraints
}
