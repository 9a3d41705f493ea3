// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/x/profiler"
	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Trace modes accepted by the trace setting.
const (
	traceNone       = "none"
	traceOTel       = "otel"
	traceOpenCensus = "opencensus"
	tracePprof      = "pprof"
	traceCallgrind  = "callgrind"
)

func defaultProfileFile(mode string) string {
	if mode == tracePprof {
		return "cpu.pprof"
	}
	return "callgrind.out"
}

// newProfiler returns the profiler selected by mode and a function that ends
// the session.  The profiler is nil when mode is none.
func newProfiler(ctx context.Context, mode, path string, logger *logrus.Logger) (kurt.Profiler, func() error, error) {
	if path == "" {
		path = defaultProfileFile(mode)
	}
	switch mode {
	case "", traceNone:
		return nil, nil, nil
	case traceOTel:
		enableInfo(logger)
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&otelLogExporter{logger: logger}))
		otel.SetTracerProvider(tp)
		p := profiler.NewOpenTelemetryAnnotator(ctx, profiler.WithBuiltinFilter())
		return p, func() error {
			return errors.Join(p.Complete(), tp.Shutdown(ctx))
		}, nil
	case traceOpenCensus:
		enableInfo(logger)
		e := &ocLogExporter{logger: logger}
		octrace.RegisterExporter(e)
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		p := profiler.NewOpenCensusAnnotator(ctx, profiler.WithBuiltinFilter())
		return p, func() error {
			defer octrace.UnregisterExporter(e)
			return p.Complete()
		}, nil
	case tracePprof:
		f, err := os.Create(path) //#nosec G304
		if err != nil {
			return nil, nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		p := profiler.NewPprofAnnotator(ctx)
		return p, func() error {
			pprof.StopCPUProfile()
			return errors.Join(p.Complete(), f.Close())
		}, nil
	case traceCallgrind:
		f, err := os.Create(path) //#nosec G304
		if err != nil {
			return nil, nil, err
		}
		p := profiler.NewCallgrindProfiler(f, profiler.WithSourceLabeler())
		return p, func() error {
			return errors.Join(p.Complete(), f.Close())
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown trace mode %q (expected none, otel, opencensus, pprof or callgrind)", mode)
	}
}

// enableInfo makes logger emit the info entries of span exporters.
func enableInfo(logger *logrus.Logger) {
	if !logger.IsLevelEnabled(logrus.InfoLevel) {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// otelLogExporter logs each finished span.
type otelLogExporter struct {
	logger *logrus.Logger
}

var _ sdktrace.SpanExporter = &otelLogExporter{}

func (e *otelLogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		if parent := span.Parent(); parent.IsValid() {
			fields["parent"] = parent.SpanID().String()
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		fields["id"] = span.SpanContext().SpanID().String()
		e.logger.WithFields(fields).Info("trace")
	}
	return nil
}

func (e *otelLogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// ocLogExporter logs each finished OpenCensus span.
type ocLogExporter struct {
	logger *logrus.Logger
}

func (e *ocLogExporter) ExportSpan(s *octrace.SpanData) {
	fields := logrus.Fields{
		"span":     s.Name,
		"duration": s.EndTime.Sub(s.StartTime),
		"id":       s.SpanID.String(),
	}
	for _, a := range s.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	e.logger.WithFields(fields).Info("trace")
}
