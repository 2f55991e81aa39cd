package mock

import "context"

// Describer is a test double for ai.Describer. It returns a fixed response
// unless DescribeFunc is set.
type Describer struct {
	// Response is returned by DescribeImage when DescribeFunc is nil.
	Response string

	// DescribeFunc is called by DescribeImage if set.
	DescribeFunc func(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error)

	callCount int
}

// NewDescriber creates a mock describer returning response.
func NewDescriber(response string) *Describer {
	return &Describer{Response: response}
}

// DescribeImage returns the canned response or delegates to DescribeFunc.
func (m *Describer) DescribeImage(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error) {
	m.callCount++
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, imageData, mimeType, prompt)
	}
	return m.Response, nil
}

// CallCount returns the number of DescribeImage calls.
func (m *Describer) CallCount() int {
	return m.callCount
}
