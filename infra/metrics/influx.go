package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/infra/logger"
)

// InfluxSink writes lap and pit records to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordLap writes the lap as a line protocol point.
func (s *InfluxSink) RecordLap(rec coremetrics.LapRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("lap").
		AddTag("run_id", rec.RunID).
		AddTag("compound", rec.Compound.String()).
		AddTag("recommendation", rec.Recommendation.String()).
		AddTag("mandatory", strconv.FormatBool(rec.Mandatory)).
		AddField("lap", rec.Lap).
		AddField("position", rec.Position).
		AddField("raw_delta", round3(rec.RawDelta)).
		AddField("scaled_delta", round3(rec.ScaledDelta)).
		AddField("degradation", round3(rec.Estimate)).
		AddField("cliff_probability", round3(rec.CliffProbability)).
		AddField("urgency", rec.Urgency.TotalUrgency).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPit writes the stop as a line protocol point.
func (s *InfluxSink) RecordPit(rec coremetrics.PitRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pit_stop").
		AddTag("run_id", rec.RunID).
		AddTag("compound_off", rec.Stint.Compound.String()).
		AddTag("compound_on", rec.NewTire.String()).
		AddField("lap", rec.Lap).
		AddField("stint_laps", rec.Stint.LapsCompleted).
		AddField("end_degradation", round3(rec.Stint.EndDegradation)).
		AddField("mean_delta", round3(rec.Stint.MeanDelta)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
