package collection

import (
	"time"

	"github.com/sectionrank/sectionrank/internal/ranker"
)

// Report is the output envelope written per collection.
type Report struct {
	Metadata          Metadata           `json:"metadata"`
	ExtractedSections []ExtractedSection `json:"extracted_sections"`
	Subsections       []SubsectionEntry  `json:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionEntry struct {
	Document    string  `json:"document"`
	RefinedText string  `json:"refined_text"`
	PageNumber  int     `json:"page_number"`
	Score       float32 `json:"score"`
}

// BuildReport assembles the output envelope, truncating both rankings to the
// configured limits. Ranks are 1-based.
func BuildReport(q QueryRecord, inputDocs []string, sections []ranker.RankedSection, subs []ranker.ScoredChunk, topSections, topSubs int) Report {
	if topSections > 0 && len(sections) > topSections {
		sections = sections[:topSections]
	}
	if topSubs > 0 && len(subs) > topSubs {
		subs = subs[:topSubs]
	}

	report := Report{
		Metadata: Metadata{
			InputDocuments:      inputDocs,
			Persona:             q.Persona.Role,
			JobToBeDone:         q.Job.Text(),
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
		},
		ExtractedSections: make([]ExtractedSection, 0, len(sections)),
		Subsections:       make([]SubsectionEntry, 0, len(subs)),
	}

	for i, sec := range sections {
		report.ExtractedSections = append(report.ExtractedSections, ExtractedSection{
			Document:       sec.Document,
			SectionTitle:   sec.Title,
			ImportanceRank: i + 1,
			PageNumber:     sec.Page,
		})
	}
	for _, sub := range subs {
		report.Subsections = append(report.Subsections, SubsectionEntry{
			Document:    sub.Document,
			RefinedText: sub.Text,
			PageNumber:  sub.Page,
			Score:       sub.Score,
		})
	}
	return report
}
