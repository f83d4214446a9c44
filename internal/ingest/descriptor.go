package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

type qosDoc struct {
	ResponseTime   float64 `json:"response_time" yaml:"response_time" toml:"response_time"`
	Availability   float64 `json:"availability" yaml:"availability" toml:"availability"`
	Throughput     float64 `json:"throughput" yaml:"throughput" toml:"throughput"`
	Successability float64 `json:"successability" yaml:"successability" toml:"successability"`
	Reliability    float64 `json:"reliability" yaml:"reliability" toml:"reliability"`
	Compliance     float64 `json:"compliance" yaml:"compliance" toml:"compliance"`
	BestPractices  float64 `json:"best_practices" yaml:"best_practices" toml:"best_practices"`
	Latency        float64 `json:"latency" yaml:"latency" toml:"latency"`
	Documentation  float64 `json:"documentation" yaml:"documentation" toml:"documentation"`
}

type serviceDoc struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Inputs  []string `json:"inputs" yaml:"inputs" toml:"inputs"`
	Outputs []string `json:"outputs" yaml:"outputs" toml:"outputs"`
	QoS     qosDoc   `json:"qos" yaml:"qos" toml:"qos"`
}

type descriptorDoc struct {
	Services []serviceDoc `json:"services" yaml:"services" toml:"services"`
}

type unmarshalFunc func([]byte, interface{}) error

// ParseDescriptor decodes a structured service descriptor in JSON, YAML, or
// TOML. A document holds either a single service object or a list under a
// top-level "services" key. The format comes from the file extension,
// falling back to content sniffing for unknown ones.
func ParseDescriptor(data []byte, filename string) ([]*types.Service, error) {
	if len(data) > utils.MaxDescriptorSize {
		return nil, fmt.Errorf("parse %s: descriptor exceeds %d bytes", filename, utils.MaxDescriptorSize)
	}

	unmarshal, err := descriptorCodec(data, filename)
	if err != nil {
		return nil, err
	}

	var doc descriptorDoc
	if err := unmarshal(data, &doc); err == nil && len(doc.Services) > 0 {
		return convertServiceDocs(doc.Services, filename)
	}

	var single serviceDoc
	if err := unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if single.ID == "" {
		return nil, fmt.Errorf("parse %s: no services found", filename)
	}
	return convertServiceDocs([]serviceDoc{single}, filename)
}

func descriptorCodec(data []byte, filename string) (unmarshalFunc, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return sonic.Unmarshal, nil
	case ".yaml", ".yml":
		return yamlUnmarshal, nil
	case ".toml":
		return tomlUnmarshal, nil
	}

	// No recognized extension: sniff. Only JSON is reliably detectable;
	// YAML and TOML read as plain text, so fall back to trying the strict
	// codec first and the permissive one last.
	mtype := mimetype.Detect(data)
	if mtype.Is("application/json") {
		return sonic.Unmarshal, nil
	}
	return func(data []byte, v interface{}) error {
		if err := tomlUnmarshal(data, v); err == nil {
			return nil
		}
		return yamlUnmarshal(data, v)
	}, nil
}

func yamlUnmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func tomlUnmarshal(data []byte, v interface{}) error {
	return toml.Unmarshal(data, v)
}

func convertServiceDocs(docs []serviceDoc, filename string) ([]*types.Service, error) {
	services := make([]*types.Service, 0, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("parse %s: service %d missing id", filename, i)
		}
		if err := utils.ValidateID(doc.ID, "id", true); err != nil {
			return nil, fmt.Errorf("parse %s: service %d: %w", filename, i, err)
		}
		if err := utils.ValidateString(doc.Name, "name", 1, utils.MaxNameLength, false); err != nil {
			return nil, fmt.Errorf("parse %s: service %q: %w", filename, doc.ID, err)
		}
		for _, param := range append(append([]string{}, doc.Inputs...), doc.Outputs...) {
			if err := utils.ValidateParamName(param, "parameter", true); err != nil {
				return nil, fmt.Errorf("parse %s: service %q: %w", filename, doc.ID, err)
			}
		}
		name := doc.Name
		if name == "" {
			name = doc.ID
		}
		services = append(services, &types.Service{
			ID:      doc.ID,
			Name:    name,
			Inputs:  doc.Inputs,
			Outputs: doc.Outputs,
			QoS: types.QoS{
				ResponseTime:   doc.QoS.ResponseTime,
				Availability:   doc.QoS.Availability,
				Throughput:     doc.QoS.Throughput,
				Successability: doc.QoS.Successability,
				Reliability:    doc.QoS.Reliability,
				Compliance:     doc.QoS.Compliance,
				BestPractices:  doc.QoS.BestPractices,
				Latency:        doc.QoS.Latency,
				Documentation:  doc.QoS.Documentation,
			},
		})
	}
	return services, nil
}
