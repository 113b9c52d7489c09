package pipeline

import (
	"github.com/user/lora_analyzer_go/internal/analysis"
	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/parser"
	"github.com/user/lora_analyzer_go/internal/report"
)

// Request asks for one chart to be produced.
type Request struct {
	Chart      config.ChartConfiguration
	NodeCounts []int // resolved node counts for grouped bar and heatmap charts
}

func (r Request) Name() string           { return r.Chart.Name }
func (r Request) Kind() config.ChartKind { return r.Chart.Kind }

// BuildRequests turns every configured chart into a request, in order.
func BuildRequests(cfg *config.AnalyzerConfiguration) []Request {
	requests := make([]Request, 0, len(cfg.Charts))
	for _, ch := range cfg.Charts {
		requests = append(requests, Request{
			Chart:      ch,
			NodeCounts: cfg.ChartNodeCounts(ch),
		})
	}
	return requests
}

// Result is the outcome of one request.
type Result struct {
	Request  Request
	Path     string // written PNG, empty on failure
	Image    []byte
	Groups   map[analysis.GroupKey]analysis.AggregatedGroup
	Summary  []report.SummaryRow
	Warnings []string
	Err      error
}

// Metric returns the metric the request reads, if any.
func (r Result) Metric() parser.Metric {
	return r.Request.Chart.Metric
}

// RunReport collects the results of a pipeline run.
type RunReport struct {
	RunID   string
	Results []Result
	Failed  int
}

// Succeeded returns the results that produced an image.
func (r *RunReport) Succeeded() []Result {
	out := make([]Result, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res)
		}
	}
	return out
}

// Warnings gathers the loader warnings of every result without repeats.
func (r *RunReport) Warnings() []string {
	seen := make(map[string]bool)
	var out []string
	for _, res := range r.Results {
		for _, w := range res.Warnings {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}
