package report

import (
	"encoding/json"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

// JSON is a Reporter that writes JSON lines.
type JSON struct {
	enc *json.Encoder
}

// NewJSON returns a JSON-lines reporter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

type configRecord struct {
	Type          string  `json:"type"`
	Objects       int     `json:"objects"`
	Levels        []int   `json:"levels"`
	PayloadBytes  int     `json:"payload_bytes"`
	KeyPrefix     string  `json:"key_prefix"`
	KeySuffix     string  `json:"key_suffix"`
	UploadTimeout string  `json:"upload_timeout,omitempty"`
	RateLimit     float64 `json:"rate_limit,omitempty"`
	Deterministic bool    `json:"deterministic"`
	Seed          uint64  `json:"seed"`
	RunID         string  `json:"run_id,omitempty"`
}

type levelRecord struct {
	Type          string   `json:"type"`
	Threads       int      `json:"threads"`
	Objects       int      `json:"objects"`
	InitSamples   int      `json:"init_samples"`
	SteadySamples int      `json:"steady_samples"`
	AvgPushMs     *float64 `json:"avg_push_ms"`
	AvgInitPushMs *float64 `json:"avg_init_push_ms"`
	CompleteMs    float64  `json:"complete_ms"`
	P50Ms         float64  `json:"p50_ms"`
	P90Ms         float64  `json:"p90_ms"`
	P99Ms         float64  `json:"p99_ms"`
	MaxMs         float64  `json:"max_ms"`
	BytesPerSec   float64  `json:"bytes_per_sec"`
}

// Begin writes the configuration record.
func (j *JSON) Begin(cfg benchtypes.RunConfig) error {
	rec := configRecord{
		Type:          "config",
		Objects:       cfg.ObjectCount,
		Levels:        cfg.Levels,
		PayloadBytes:  cfg.PayloadSize,
		KeyPrefix:     cfg.KeyPrefix,
		KeySuffix:     cfg.KeySuffix,
		RateLimit:     cfg.RateLimit,
		Deterministic: cfg.Deterministic,
		Seed:          cfg.Seed,
		RunID:         cfg.RunID,
	}
	if cfg.UploadTimeout > 0 {
		rec.UploadTimeout = cfg.UploadTimeout.String()
	}
	return j.enc.Encode(rec)
}

// Level writes one level record. Undefined means are written as null.
func (j *JSON) Level(r benchtypes.LevelResult) error {
	return j.enc.Encode(levelRecord{
		Type:          "level",
		Threads:       r.Concurrency,
		Objects:       r.Objects,
		InitSamples:   r.InitSamples,
		SteadySamples: r.SteadySamples,
		AvgPushMs:     optional(r.AvgSteady),
		AvgInitPushMs: optional(r.AvgInit),
		CompleteMs:    benchtypes.Millis(r.Total),
		P50Ms:         benchtypes.Millis(r.P50),
		P90Ms:         benchtypes.Millis(r.P90),
		P99Ms:         benchtypes.Millis(r.P99),
		MaxMs:         benchtypes.Millis(r.Max),
		BytesPerSec:   r.Throughput,
	})
}

// End is a no-op; every record is written as soon as it is known.
func (j *JSON) End() error {
	return nil
}

func optional(m benchtypes.Mean) *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Millis()
	return &v
}

var _ benchtypes.Reporter = (*JSON)(nil)
