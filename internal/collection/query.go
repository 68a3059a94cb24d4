// Package collection orchestrates one unit of work: a directory holding a
// query.json plus the documents to rank against it.
package collection

import (
	"encoding/json"
	"fmt"
	"os"
)

// QueryFileName marks a directory as a collection.
const QueryFileName = "query.json"

// Persona describes who is asking.
type Persona struct {
	Role string `json:"role"`
}

// Job describes what they need to get done. Input records use either field
// name for the job text.
type Job struct {
	Description string `json:"description"`
	Task        string `json:"task"`
}

// Text returns the job description, falling back to the task field.
func (j Job) Text() string {
	if j.Description != "" {
		return j.Description
	}
	if j.Task != "" {
		return j.Task
	}
	return "a task"
}

// QueryRecord is the persona + job-to-be-done input for one collection.
type QueryRecord struct {
	Persona Persona `json:"persona"`
	Job     Job     `json:"job_to_be_done"`
}

// LoadQuery reads and decodes a collection's query record.
func LoadQuery(path string) (QueryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("read query file: %w", err)
	}
	var q QueryRecord
	if err := json.Unmarshal(data, &q); err != nil {
		return QueryRecord{}, fmt.Errorf("decode query file: %w", err)
	}
	return q, nil
}
