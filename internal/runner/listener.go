package runner

import "mspec/internal/domain"

type tee []Listener

// Tee returns a listener that forwards every event to each of listeners, in order.
func Tee(listeners ...Listener) Listener {
	return tee(listeners)
}

func (t tee) WriteLine(text string, category Category) {
	for _, l := range t {
		l.WriteLine(text, category)
	}
}

func (t tee) TestFinished(result domain.TestResult) {
	for _, l := range t {
		l.TestFinished(result)
	}
}

// Collector records finished results and ignores progress text
type Collector struct {
	results []domain.TestResult
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) WriteLine(string, Category) {}

func (c *Collector) TestFinished(result domain.TestResult) {
	c.results = append(c.results, result)
}

// Results returns the results recorded so far, in arrival order
func (c *Collector) Results() []domain.TestResult {
	return c.results
}
