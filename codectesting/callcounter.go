package codectesting

import "bytes"

type TestCallCounter struct {
	MethodCalls map[string]int
}

func (r *TestCallCounter) IncMethodCall(name string) int {
	if r.MethodCalls == nil {
		r.MethodCalls = make(map[string]int)
	}
	r.MethodCalls[name]++
	return r.MethodCalls[name]
}

func (r *TestCallCounter) Reset() {
	r.MethodCalls = make(map[string]int)
}

func (r *TestCallCounter) MethodCallCount(name string) int {
	return r.MethodCalls[name]
}

// TestSink is a buffered writer that records Write and Flush calls. Bytes
// only become visible in Flushed after Flush.
type TestSink struct {
	TestCallCounter
	pending bytes.Buffer
	Flushed bytes.Buffer
}

func (s *TestSink) Write(p []byte) (int, error) {
	s.IncMethodCall("Write")
	return s.pending.Write(p)
}

func (s *TestSink) Flush() error {
	s.IncMethodCall("Flush")
	_, err := s.pending.WriteTo(&s.Flushed)
	return err
}
