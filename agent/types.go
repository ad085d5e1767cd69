// Package agent runs the tool-augmented research loop.
//
// Contains the response types returned from agent runs.
package agent

import (
	"github.com/nmoreau/scholar/llm"
)

// ResponseType indicates how a run ended.
type ResponseType int

const (
	// ResponseSuccess means the model produced a final answer.
	ResponseSuccess ResponseType = iota
	// ResponseFailure means the run aborted on an error.
	ResponseFailure
	// ResponseStepLimit means the step budget ran out before a final answer.
	ResponseStepLimit
)

// Metadata contains metadata about an agent run.
type Metadata struct {
	ExecutionTimeMs uint64
	LLMCalls        int
	ToolCalls       int
	TokenUsage      llm.TokenUsage
}

// Response represents the outcome of one agent run.
type Response struct {
	Type     ResponseType
	Result   string // For Success and StepLimit
	Error    string // For Failure
	Metadata Metadata
}

// NewSuccessResponse creates a successful response.
func NewSuccessResponse(result string, meta Metadata) Response {
	return Response{
		Type:     ResponseSuccess,
		Result:   result,
		Metadata: meta,
	}
}

// NewFailureResponse creates a failure response.
func NewFailureResponse(err string, meta Metadata) Response {
	return Response{
		Type:     ResponseFailure,
		Error:    err,
		Metadata: meta,
	}
}

// NewStepLimitResponse creates a response for an exhausted step budget.
// The result carries whatever the conversation last produced.
func NewStepLimitResponse(result string, meta Metadata) Response {
	return Response{
		Type:     ResponseStepLimit,
		Result:   result,
		Metadata: meta,
	}
}

// ResultText returns the result string (for success or step limit) or
// the error (for failure).
func (r Response) ResultText() string {
	if r.Type == ResponseFailure {
		return r.Error
	}
	return r.Result
}

// IsSuccess checks if the run produced a final answer.
func (r Response) IsSuccess() bool {
	return r.Type == ResponseSuccess
}
