package ingest

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

type exportQoS struct {
	ResponseTime   float64 `xml:"response_time"`
	Availability   float64 `xml:"availability"`
	Throughput     float64 `xml:"throughput"`
	Successability float64 `xml:"successability"`
	Reliability    float64 `xml:"reliability"`
	Compliance     float64 `xml:"compliance"`
	BestPractices  float64 `xml:"best_practices"`
	Latency        float64 `xml:"latency"`
	Documentation  float64 `xml:"documentation"`
}

type exportInteraction struct {
	Role        string   `xml:"role"`
	CanCall     []string `xml:"canCall>service"`
	DependsOn   []string `xml:"dependsOn>service"`
	Substitutes []string `xml:"substitutes>service"`
}

type exportSocial struct {
	TrustDegree     float64 `xml:"trustDegree"`
	Reputation      float64 `xml:"reputation"`
	Cooperativeness float64 `xml:"cooperativeness"`
	RobustnessScore float64 `xml:"robustnessScore"`
}

type exportCollaborator struct {
	ID     string  `xml:"id,attr"`
	Weight float64 `xml:"weight,attr"`
}

type exportAnnotations struct {
	Interaction   *exportInteraction   `xml:"interaction,omitempty"`
	Social        exportSocial         `xml:"socialProperties"`
	Collaborators []exportCollaborator `xml:"collaborators>collaborator,omitempty"`
}

type exportBasicInfo struct {
	Inputs  []string `xml:"inputs>input"`
	Outputs []string `xml:"outputs>output"`
}

type annotatedServiceDoc struct {
	XMLName     xml.Name           `xml:"annotatedService"`
	ServiceID   string             `xml:"serviceId"`
	BasicInfo   exportBasicInfo    `xml:"basicInfo"`
	QoS         exportQoS          `xml:"qos"`
	Annotations *exportAnnotations `xml:"annotations,omitempty"`
}

// ExportAnnotatedXML renders a service, with its annotation block when
// present, as a standalone XML document. The QoS keys match the ones
// ParseService accepts, so an exported document reimports cleanly.
func ExportAnnotatedXML(svc *types.Service) ([]byte, error) {
	if svc == nil {
		return nil, fmt.Errorf("export: nil service")
	}
	doc := annotatedServiceDoc{
		ServiceID: svc.ID,
		BasicInfo: exportBasicInfo{Inputs: svc.Inputs, Outputs: svc.Outputs},
		QoS: exportQoS{
			ResponseTime:   svc.QoS.ResponseTime,
			Availability:   svc.QoS.Availability,
			Throughput:     svc.QoS.Throughput,
			Successability: svc.QoS.Successability,
			Reliability:    svc.QoS.Reliability,
			Compliance:     svc.QoS.Compliance,
			BestPractices:  svc.QoS.BestPractices,
			Latency:        svc.QoS.Latency,
			Documentation:  svc.QoS.Documentation,
		},
	}

	if ann := svc.Annotations; ann != nil {
		block := &exportAnnotations{
			Social: exportSocial{
				TrustDegree:     ann.TrustDegree,
				Reputation:      ann.Reputation,
				Cooperativeness: ann.Cooperativeness,
				RobustnessScore: ann.Robustness,
			},
			Collaborators: sortedCollaborators(ann.Collaborators),
		}
		if inter := ann.Interaction; inter != nil {
			block.Interaction = &exportInteraction{
				Role:        inter.Role,
				CanCall:     inter.CanCall,
				DependsOn:   inter.DependsOn,
				Substitutes: inter.Substitutes,
			}
		}
		doc.Annotations = block
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", svc.ID, err)
	}
	return append([]byte(xml.Header), out...), nil
}

func sortedCollaborators(weights map[string]float64) []exportCollaborator {
	if len(weights) == 0 {
		return nil
	}
	out := make([]exportCollaborator, 0, len(weights))
	for id, weight := range weights {
		out = append(out, exportCollaborator{ID: id, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].ID < out[j].ID
	})
	return out
}
