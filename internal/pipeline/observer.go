package pipeline

// Stage names reported to an Observer.
type Stage string

const (
	StageClean     Stage = "clean"
	StageDedup     Stage = "deduplicate"
	StageTransform Stage = "transform"
	StageCoerce    Stage = "coerce"
	StageReference Stage = "reference_filter"
	StageAggregate Stage = "aggregate"
)

// Observer is told about every completed stage. Implementations must not modify
// the pipeline's tables.
type Observer interface {
	StageDone(stage Stage, table string, rowsIn, rowsOut int)
}

type nopObserver struct{}

func (nopObserver) StageDone(Stage, string, int, int) {}

// Option configures a pipeline run.
type Option func(*runConfig)

type runConfig struct {
	observer Observer
}

// WithObserver reports stage progress to o.
func WithObserver(o Observer) Option {
	return func(c *runConfig) {
		if o != nil {
			c.observer = o
		}
	}
}

func newRunConfig(opts []Option) runConfig {
	cfg := runConfig{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Counts records row totals along a run.
type Counts struct {
	Loaded     int `json:"loaded"`
	Retained   int `json:"retained"`
	Duplicates int `json:"duplicates_dropped"`
	Output     int `json:"output"`
}
