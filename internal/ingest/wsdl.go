package ingest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
	"github.com/bytedance/sonic"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var (
	// serviceIDPattern matches the dataset filename convention
	// servicepXXaYYYY.wsdl and captures the bare id.
	serviceIDPattern = regexp.MustCompile(`service(p\d+a\d+)`)

	// qosCommentPattern extracts a QoS dict from an XML comment, the older
	// dataset convention: <!-- QoS: {'ResponseTime': 409.0, ...} -->
	qosCommentPattern = regexp.MustCompile(`QoS:\s*({[^}]+})`)
)

type wsdlPart struct {
	Name    string `xml:"name,attr"`
	Element string `xml:"element,attr"`
}

type wsdlMessage struct {
	Name  string     `xml:"name,attr"`
	Parts []wsdlPart `xml:"part"`
}

type wsdlMetric struct {
	XMLName xml.Name
	Value   string `xml:"Value,attr"`
	Text    string `xml:",chardata"`
}

type wsdlQoS struct {
	Metrics []wsdlMetric `xml:",any"`
}

// ParseService parses one WSDL/XML service descriptor. The service id comes
// from the filename, input and output parameters from the message parts, and
// the QoS profile from a QoS element or a QoS comment.
func ParseService(data []byte, filename string) (*types.Service, error) {
	svc := &types.Service{ID: ServiceIDFromFilename(filename)}
	if err := utils.ValidateID(svc.ID, "service id", true); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	svc.Name = svc.ID

	var (
		messages []wsdlMessage
		comments []string
		qosBlock *wsdlQoS
	)

	dec := newXMLDecoder(data)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "message":
				var msg wsdlMessage
				if err := dec.DecodeElement(&msg, &t); err != nil {
					return nil, fmt.Errorf("parse %s: %w", filename, err)
				}
				messages = append(messages, msg)
			case strings.EqualFold(t.Name.Local, "qos"):
				// First block wins when a descriptor repeats it.
				if qosBlock == nil {
					var block wsdlQoS
					if err := dec.DecodeElement(&block, &t); err != nil {
						return nil, fmt.Errorf("parse %s: %w", filename, err)
					}
					qosBlock = &block
				}
			}
		case xml.Comment:
			comments = append(comments, string(t))
		}
	}

	svc.Inputs, svc.Outputs = messageParameters(messages)
	if len(svc.Inputs) == 0 && len(svc.Outputs) == 0 {
		// Not a WSDL shape; exported annotatedService documents and other
		// ad-hoc layouts land here.
		svc.Inputs, svc.Outputs = genericParameters(data)
	}
	svc.QoS = extractQoS(qosBlock, comments)
	return svc, nil
}

// ServiceIDFromFilename derives the service id from the descriptor
// filename, preferring the servicepXXaYYYY convention and falling back to
// the basename without extension.
func ServiceIDFromFilename(filename string) string {
	base := filepath.Base(filename)
	if m := serviceIDPattern.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	if id := strings.TrimSuffix(base, filepath.Ext(base)); id != "" && id != "." {
		return id
	}
	return "unknown"
}

// messageParameters maps message parts to input and output parameters based
// on the message name. Dataset messages follow the Request/Response naming
// convention loosely, so the match is by substring.
func messageParameters(messages []wsdlMessage) (inputs, outputs []string) {
	seenIn := make(map[string]bool)
	seenOut := make(map[string]bool)
	for _, msg := range messages {
		name := strings.ToLower(msg.Name)
		for _, part := range msg.Parts {
			param := partName(part)
			if param == "" {
				continue
			}
			switch {
			case strings.Contains(name, "request"):
				if !seenIn[param] {
					seenIn[param] = true
					inputs = append(inputs, param)
				}
			case strings.Contains(name, "response"):
				if !seenOut[param] {
					seenOut[param] = true
					outputs = append(outputs, param)
				}
			case strings.Contains(name, "input"), strings.Contains(name, "in"):
				if !seenIn[param] {
					seenIn[param] = true
					inputs = append(inputs, param)
				}
			case strings.Contains(name, "output"), strings.Contains(name, "out"), strings.Contains(name, "result"):
				if !seenOut[param] {
					seenOut[param] = true
					outputs = append(outputs, param)
				}
			}
		}
	}
	return inputs, outputs
}

func partName(part wsdlPart) string {
	if name := strings.TrimSpace(part.Name); name != "" {
		return name
	}
	element := part.Element
	if idx := strings.LastIndex(element, ":"); idx >= 0 {
		element = element[idx+1:]
	}
	return strings.TrimSpace(element)
}

// genericParameters is the fallback for documents without WSDL messages:
// any element carrying a dataset-shaped parameter (pXXaYYY) in its name
// attribute or its text is classified by its tag.
func genericParameters(data []byte) (inputs, outputs []string) {
	seenIn := make(map[string]bool)
	seenOut := make(map[string]bool)
	classify := func(tag, name string) {
		if !paramShaped(name) {
			return
		}
		switch {
		case strings.HasSuffix(tag, "input") || strings.Contains(tag, "request"):
			if !seenIn[name] {
				seenIn[name] = true
				inputs = append(inputs, name)
			}
		case strings.HasSuffix(tag, "output") || strings.Contains(tag, "response"):
			if !seenOut[name] {
				seenOut[name] = true
				outputs = append(outputs, name)
			}
		}
	}

	dec := newXMLDecoder(data)
	current := ""
	for {
		tok, err := dec.Token()
		if err != nil {
			return inputs, outputs
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = strings.ToLower(t.Name.Local)
			classify(current, attrValue(t, "name"))
		case xml.CharData:
			classify(current, strings.TrimSpace(string(t)))
		case xml.EndElement:
			current = ""
		}
	}
}

func paramShaped(name string) bool {
	return strings.HasPrefix(name, "p") && strings.Contains(name, "a")
}

func attrValue(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// extractQoS reads the metric profile from the QoS element, falling back to
// the comment convention used by older dataset files.
func extractQoS(block *wsdlQoS, comments []string) types.QoS {
	var q types.QoS
	if block != nil {
		found := false
		for _, metric := range block.Metrics {
			raw := metric.Value
			if raw == "" {
				raw = strings.TrimSpace(metric.Text)
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if applyQoSValue(&q, metric.XMLName.Local, value) {
				found = true
			}
		}
		if found {
			return q
		}
	}
	for _, comment := range comments {
		m := qosCommentPattern.FindStringSubmatch(comment)
		if m == nil {
			continue
		}
		// The comment holds a Python-style dict with single quotes.
		normalized := strings.ReplaceAll(m[1], "'", `"`)
		values := make(map[string]float64)
		if err := sonic.Unmarshal([]byte(normalized), &values); err != nil {
			continue
		}
		for key, value := range values {
			applyQoSValue(&q, key, value)
		}
		return q
	}
	return q
}

// applyQoSValue assigns one metric by its dataset key. Both the PascalCase
// descriptor keys and the snake_case export keys are accepted so exported
// documents round-trip.
func applyQoSValue(q *types.QoS, key string, value float64) bool {
	switch key {
	case "ResponseTime", "response_time":
		q.ResponseTime = value
	case "Availability", "availability":
		q.Availability = value
	case "Throughput", "throughput":
		q.Throughput = value
	case "Successability", "successability":
		q.Successability = value
	case "Reliability", "reliability":
		q.Reliability = value
	case "Compliance", "compliance":
		q.Compliance = value
	case "BestPractices", "best_practices":
		q.BestPractices = value
	case "Latency", "latency":
		q.Latency = value
	case "Documentation", "documentation":
		q.Documentation = value
	default:
		return false
	}
	return true
}

// newXMLDecoder builds a decoder that survives both declared non-UTF-8
// encodings and undeclared ones sniffed from the raw bytes.
func newXMLDecoder(data []byte) *xml.Decoder {
	if !utf8.Valid(data) {
		if det, err := chardet.NewTextDetector().DetectBest(data); err == nil && det != nil {
			if r, err := charset.NewReaderLabel(strings.ToLower(det.Charset), bytes.NewReader(data)); err == nil {
				dec := xml.NewDecoder(r)
				// Input is already UTF-8; a stale encoding declaration
				// must not trigger a second conversion.
				dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
					return input, nil
				}
				return dec
			}
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}
