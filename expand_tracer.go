package swiftcc

// expandTracer tracks the chain of variables being resolved, to catch
// placeholders that refer back to themselves.
type expandTracer struct {
	trace []string
	m     map[string]bool
}

func newExpandTracer() *expandTracer {
	return &expandTracer{
		m: make(map[string]bool),
	}
}

// push adds name to the chain. It returns false if name is already on the
// chain.
func (t *expandTracer) push(name string) bool {
	if t.m[name] {
		return false
	}
	t.trace = append(t.trace, name)
	t.m[name] = true
	return true
}

func (t *expandTracer) pop() {
	n := len(t.trace)
	if n == 0 {
		return
	}
	last := t.trace[n-1]
	delete(t.m, last)
	t.trace = t.trace[:n-1]
}

// cycle returns the chain from the first appearance of name, closed with
// name again.
func (t *expandTracer) cycle(name string) []string {
	start := 0
	for i, s := range t.trace {
		if s == name {
			start = i
			break
		}
	}
	ret := make([]string, 0, len(t.trace)-start+1)
	ret = append(ret, t.trace[start:]...)
	return append(ret, name)
}
